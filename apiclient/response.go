package apiclient

import (
	"encoding/json"

	"github.com/dashware/go-apiclient/transport"
)

// Backend signal codes carried in the response detail. The two privilege
// codes are distinct on purpose: they select different re-authentication
// prompts.
const (
	codeSudoRequired      = "sudo-required"
	codeSuperuserRequired = "superuser-required"
	codeResourceMoved     = "resource-moved"
)

// responseDetail is the envelope the backend uses for out-of-band signals:
// {"detail": {"code": "...", "extra": {...}}}.
type responseDetail struct {
	Detail struct {
		Code  string         `json:"code"`
		Extra map[string]any `json:"extra"`
	} `json:"detail"`
}

func decodeDetail(body []byte) (responseDetail, bool) {
	var detail responseDetail
	if len(body) == 0 {
		return detail, false
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return detail, false
	}
	return detail, detail.Detail.Code != ""
}

// privilegeRequired reports whether the response signals that the request
// needs interactive re-authentication, and at which privilege level.
func privilegeRequired(resp *transport.Response) (needsSudo, needsSuperuser bool) {
	detail, ok := decodeDetail(resp.Body)
	if !ok {
		return false, false
	}
	switch detail.Detail.Code {
	case codeSudoRequired:
		return true, false
	case codeSuperuserRequired:
		return false, true
	}
	return false, false
}

// movedResource reports whether a successful response carries a relocation
// marker, and the new identifier if so.
func movedResource(resp *transport.Response) (slug string, ok bool) {
	detail, decoded := decodeDetail(resp.Body)
	if !decoded || detail.Detail.Code != codeResourceMoved {
		return "", false
	}
	slug, _ = detail.Detail.Extra["slug"].(string)
	return slug, slug != ""
}
