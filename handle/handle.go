// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package handle

import (
	"net/http"

	"github.com/gogama/httpcore/buffer"
)

// A Handle consumes the inbound event stream of one response. The
// transport delivers events for a given request in the order
//
//	OnStart → OnData* → OnTrailer? → (OnEnd | OnError)
//
// and never delivers further events after OnEnd or OnError. OnError
// may also arrive before OnStart, for example when the request could
// not be written.
//
// The transport owns each fragment passed to OnData and releases it
// once OnData returns. A Handle that keeps a fragment must Retain it.
type Handle interface {
	OnStart(statusCode int, header http.Header)
	OnData(fragment *buffer.Buffer)
	OnTrailer(trailer http.Header)
	OnEnd()
	OnError(err error)
}
