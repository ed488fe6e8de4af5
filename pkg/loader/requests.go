package loader

import (
	"encoding/json"
	"io"

	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lastmile/pkg/util"
)

// LoadRequestsJSON. array of {seq, fe_name, fe: {lat, lon}, ne_name, ne: {lat, lon}}.
// coordinates are not validated here, invalid ones fail the request with snap_failed.
func LoadRequestsJSON(r io.Reader) ([]da.EndpointRequest, error) {
	var requests []da.EndpointRequest
	if err := json.NewDecoder(r).Decode(&requests); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid requests json: %v", err)
	}
	if requests == nil {
		requests = []da.EndpointRequest{}
	}
	return requests, nil
}

type summaryFile struct {
	da.BatchSummary
	Results []da.RouteResult `json:"results"`
}

// WriteSummaryJSON. batch summary plus the per request outcome, without geometry.
func WriteSummaryJSON(w io.Writer, summary da.BatchSummary, results []da.RouteResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaryFile{BatchSummary: summary, Results: results})
}
