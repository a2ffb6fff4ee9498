package registry

import (
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog/log"
)

func dump(resp *http.Response) {
	if !debug || resp == nil {
		return
	}

	if data, err := httputil.DumpRequestOut(resp.Request, false); err == nil {
		log.Trace().Msg(string(data))
	} else {
		log.Trace().Err(err).Msg("dumping request")
	}

	if data, err := httputil.DumpResponse(resp, true); err == nil {
		log.Trace().Msg(string(data))
	} else {
		log.Trace().Err(err).Msg("dumping response")
	}
}
