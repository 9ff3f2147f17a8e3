package validation

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
)

type record struct {
	ID      string    `json:"_id"`
	Created time.Time `json:"createdAt"`
	Title   string    `json:"title" binding:"required"`
	Views   int       `json:"views"`
}

func bindContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return c
}

func TestBindJSON(t *testing.T) {
	tests := map[string]struct {
		body     string
		want     record
		wantMsgs []string
	}{
		"decodes and drops ignored keys": {
			body: `{"_id":"abc","createdAt":"yesterday","title":"Hello","views":2}`,
			want: record{Title: "Hello", Views: 2},
		},
		"wrong type": {
			body:     `{"title":"Hello","views":"ten"}`,
			wantMsgs: []string{"views must be of type int"},
		},
		"not an object": {
			body:     `["title"]`,
			wantMsgs: []string{"Request body must be a JSON object"},
		},
		"malformed": {
			body:     `{"title":`,
			wantMsgs: []string{"Malformed JSON body"},
		},
		"empty": {
			body:     "  ",
			wantMsgs: []string{"Request body is required"},
		},
		"fails validation": {
			body:     `{"views":1}`,
			wantMsgs: []string{"title is required"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var got record
			err := BindJSON(bindContext(tc.body), &got, "_id", "createdAt")
			if tc.wantMsgs == nil {
				if err != nil {
					t.Fatalf("BindJSON() error = %v", err)
				}
				if diff := cmp.Diff(tc.want, got); diff != "" {
					t.Errorf("BindJSON() mismatch (-want +got):\n%s", diff)
				}
				return
			}
			msgs, ok := Messages(err)
			if !ok {
				t.Fatalf("Messages(%v) not recognised", err)
			}
			if diff := cmp.Diff(tc.wantMsgs, msgs); diff != "" {
				t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBindJSONInvalidFieldValue(t *testing.T) {
	var got record
	err := BindJSON(bindContext(`{"createdAt":"yesterday","title":"Hello"}`), &got)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("BindJSON() error = %v, want *DecodeError", err)
	}
	msgs, ok := Messages(err)
	if !ok || len(msgs) != 1 || msgs[0] != "Request body contains an invalid value" {
		t.Errorf("Messages() = %v, %v", msgs, ok)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestBindJSONPassesReadErrors(t *testing.T) {
	readErr := errors.New("connection reset")
	c := bindContext("")
	c.Request.Body = io.NopCloser(failingReader{err: readErr})

	var got record
	err := BindJSON(c, &got)
	if !errors.Is(err, readErr) {
		t.Fatalf("BindJSON() error = %v, want %v", err, readErr)
	}
	if _, ok := Messages(err); ok {
		t.Error("Messages() accepted a read error")
	}
}
