package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestParseParamsDefaults(t *testing.T) {
	params := ParseParams(testContext(t, "/visits"))
	if params.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, params.Limit)
	}
	if params.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", params.Offset)
	}
}

func TestParseParamsExplicitValues(t *testing.T) {
	params := ParseParams(testContext(t, "/visits?limit=25&offset=50"))
	if params.Limit != 25 || params.Offset != 50 {
		t.Errorf("expected 25/50, got %d/%d", params.Limit, params.Offset)
	}
}

func TestParseParamsCapsLimit(t *testing.T) {
	params := ParseParams(testContext(t, "/visits?limit=1000"))
	if params.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, params.Limit)
	}
}

func TestParseParamsIgnoresMalformedValues(t *testing.T) {
	for _, url := range []string{
		"/visits?limit=abc&offset=xyz",
		"/visits?limit=-5&offset=-10",
	} {
		params := ParseParams(testContext(t, url))
		if params.Limit != DefaultLimit || params.Offset != 0 {
			t.Errorf("%s: expected defaults, got %d/%d", url, params.Limit, params.Offset)
		}
	}
}

func TestValidateClamps(t *testing.T) {
	p := Params{Limit: -1, Offset: -3}
	p.Validate()
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults after clamp, got %d/%d", p.Limit, p.Offset)
	}

	p = Params{Limit: MaxLimit + 1, Offset: 7}
	p.Validate()
	if p.Limit != MaxLimit || p.Offset != 7 {
		t.Errorf("expected %d/7 after clamp, got %d/%d", MaxLimit, p.Limit, p.Offset)
	}
}
