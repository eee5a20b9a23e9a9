package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"ad-campaign-builder/internal/catalog"
	"ad-campaign-builder/internal/replies"
)

func newTestServer() *httptest.Server {
	h := NewHandler(catalog.New(), replies.NewSessions(), nil)
	return httptest.NewServer(Router(h))
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestPreviewHierarchy(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	body := map[string]any{
		"campaign": map[string]any{"name_pattern": "{brand}"},
		"hierarchy": map[string]any{"ad_groups": []any{
			map[string]any{"name_pattern": "{brand}", "ads": []any{
				map[string]any{"headline": "{brand}", "description": "d"},
			}},
		}},
		"rows": []any{
			map[string]any{"brand": "X"},
			map[string]any{"brand": "X"},
			map[string]any{"brand": "Y"},
		},
		"platforms": 3,
	}

	resp := postJSON(t, ts.URL+"/v1/preview/hierarchy", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[hierarchyPreviewResponse](t, resp)
	assert.Equal(t, 2, got.TotalCampaigns)
	assert.Equal(t, 2, got.TotalAds)
	assert.Equal(t, 6, got.ProjectedCampaigns)
	assert.Equal(t, 6, got.ProjectedAds)
}

func TestPreviewKeywords(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	body := map[string]any{
		"rule": map[string]any{
			"prefixes": []string{"buy"},
			"suffixes": []string{"online"},
			"enabled": map[string]bool{
				"core_only": true, "prefix_core": true, "core_suffix": true, "full": true,
			},
		},
		"core_terms": []string{"shoes"},
	}

	resp := postJSON(t, ts.URL+"/v1/preview/keywords", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[struct {
		Keywords []string `json:"keywords"`
		Count    int      `json:"count"`
	}](t, resp)
	assert.Equal(t, []string{"shoes", "buy shoes", "shoes online", "buy shoes online"}, got.Keywords)
	assert.Equal(t, 4, got.Count)
}

func TestValidate(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantValid  bool
	}{
		{
			name: "campaign unknown column",
			body: map[string]any{
				"subject":  "campaign",
				"columns":  []map[string]any{{"name": "brand", "type": "string"}},
				"campaign": map[string]any{"name_pattern": "{unknown_col}"},
			},
			wantStatus: http.StatusOK,
			wantValid:  false,
		},
		{
			name: "campaign ok",
			body: map[string]any{
				"subject":  "campaign",
				"columns":  []map[string]any{{"name": "brand", "type": "string"}},
				"campaign": map[string]any{"name_pattern": "{brand} sale"},
			},
			wantStatus: http.StatusOK,
			wantValid:  true,
		},
		{
			name:       "unknown subject",
			body:       map[string]any{"subject": "nonsense"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown column set",
			body: map[string]any{
				"subject":    "campaign",
				"column_set": "missing_feed",
				"campaign":   map[string]any{"name_pattern": "x"},
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/validate", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				got := decode[struct {
					Valid bool `json:"valid"`
				}](t, resp)
				assert.Equal(t, tt.wantValid, got.Valid)
			} else {
				resp.Body.Close()
			}
		})
	}
}

func TestThreadLifecycle(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/threads", map[string]any{})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := decode[map[string]string](t, resp)["session_id"]
	if sid == "" {
		t.Fatal("empty session id")
	}
	base := ts.URL + "/v1/threads/" + sid

	// root reply
	resp = postJSON(t, base+"/replies", map[string]any{})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	rootID := decode[map[string]int64](t, resp)["id"]

	// child reply
	resp = postJSON(t, base+"/replies", map[string]any{"parent_id": rootID})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	childID := decode[map[string]int64](t, resp)["id"]

	// stale parent is a no-op
	resp = postJSON(t, base+"/replies", map[string]any{"parent_id": 9999})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// tree shows the nesting
	treeResp, err := http.Get(base + "/tree")
	assert.NoError(t, err)
	tree := decode[[]replies.TreeNode](t, treeResp)
	if assert.Len(t, tree, 1) {
		assert.Equal(t, rootID, tree[0].ID)
		if assert.Len(t, tree[0].Children, 1) {
			assert.Equal(t, childID, tree[0].Children[0].ID)
		}
	}

	// delete cascades
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/replies/%d", base, rootID), nil)
	delResp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	listResp, err := http.Get(base + "/replies")
	assert.NoError(t, err)
	nodes := decode[[]replies.ReplyNode](t, listResp)
	assert.Empty(t, nodes)
}

func TestThread_UnknownSession(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/v1/threads/nope/replies", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBlueprints_WithoutDatabase(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	listResp, err := http.Get(ts.URL + "/v1/blueprints")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()

	resp := postJSON(t, ts.URL+"/v1/blueprints", map[string]any{"id": "b1", "name": "n"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()
}
