package offerskit

import (
	"testing"
	"time"
)

func tokenExpiringIn(now time.Time, offset time.Duration) *AccessToken {
	expiry := now.Add(offset)
	return &AccessToken{
		Token:     "token",
		ExpiresAt: float64(expiry.UnixNano()) / float64(time.Second),
	}
}

// A token is usable exactly when more than the safety buffer remains before
// its expiry. Sweep offsets across the boundary to pin the window down.
func TestAccessTokenValidityWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	for offset := -100; offset <= 100; offset++ {
		d := time.Duration(offset) * time.Second
		token := tokenExpiringIn(now, d)
		want := d > tokenSafetyBuffer
		if got := token.Valid(now); got != want {
			t.Errorf("offset %ds: Valid = %v, want %v", offset, got, want)
		}
	}
}

func TestAccessTokenValidEdgeCases(t *testing.T) {
	now := time.Now()

	var nilToken *AccessToken
	if nilToken.Valid(now) {
		t.Error("nil token reported valid")
	}
	if (&AccessToken{ExpiresAt: float64(now.Add(time.Hour).UnixNano()) / float64(time.Second)}).Valid(now) {
		t.Error("token without a value reported valid")
	}
	if (&AccessToken{Token: "t"}).Valid(now) {
		t.Error("token without an expiry reported valid")
	}
}

func TestRequestCloneIsDeep(t *testing.T) {
	original := &Request{
		Method:  "POST",
		URL:     "http://offers.test",
		Headers: map[string]string{"Bearer": "a"},
		Params:  map[string]string{"page": "1"},
		FormBody: map[string]string{
			"k": "v",
		},
	}

	clone := original.Clone()
	clone.Headers["Bearer"] = "b"
	clone.Params["page"] = "2"
	clone.FormBody["k"] = "w"

	if original.Headers["Bearer"] != "a" {
		t.Error("clone shares the headers map")
	}
	if original.Params["page"] != "1" {
		t.Error("clone shares the params map")
	}
	if original.FormBody["k"] != "v" {
		t.Error("clone shares the form body map")
	}

	var nilReq *Request
	if nilReq.Clone() != nil {
		t.Error("Clone of nil is not nil")
	}
}

func TestResponseHelpers(t *testing.T) {
	resp := &Response{StatusCode: 200, Body: []byte(`{"id":"p1"}`)}
	if resp.Text() != `{"id":"p1"}` {
		t.Errorf("Text() = %q", resp.Text())
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := resp.JSON(&payload); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if payload.ID != "p1" {
		t.Errorf("ID = %q", payload.ID)
	}

	var nilResp *Response
	if nilResp.Text() != "" {
		t.Error("Text of nil response is not empty")
	}
}
