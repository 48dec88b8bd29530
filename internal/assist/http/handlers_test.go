package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-pal/project-pal-backend/config"
	"github.com/project-pal/project-pal-backend/internal/assist"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
	"github.com/project-pal/project-pal-backend/internal/projects/service"
)

// newTestRouter wires the assist surface against miniredis and a stub
// completion endpoint. With completion == "" the stub is replaced by a client
// with no credential.
func newTestRouter(t *testing.T, completion string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := config.OpenRouterConfig{Model: "openai/gpt-4o", BaseURL: "http://unused"}
	if completion != "" {
		upstream := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			body, _ := json.Marshal(gin.H{
				"choices": []gin.H{{"message": gin.H{"content": completion}}},
			})
			w.Write(body)
		}))
		t.Cleanup(upstream.Close)
		cfg.APIKey = "test-key"
		cfg.BaseURL = upstream.URL
	}

	repo := repository.New(redisClient)
	svc := assist.NewService(assist.NewClient(cfg), repo)

	r := gin.New()
	New(svc, service.NewProjectService(repo)).Register(r.Group(""))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

// seedProjectID returns the id of a seed project straight from the store.
func seedProjectID(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, out := do(t, r, nethttp.MethodPost, "/assist/options/accept", gin.H{
		"option": gin.H{"name": "Target", "techStack": []string{"Go"}},
	})
	require.Equal(t, nethttp.StatusCreated, w.Code)
	return out["project"].(map[string]any)["id"].(string)
}

func TestStoryFeedbackEndpoint(t *testing.T) {
	r := newTestRouter(t, "What is good:\n- Clear actor.")
	id := seedProjectID(t, r)

	w, out := do(t, r, nethttp.MethodPost, "/projects/"+id+"/feedback", gin.H{
		"story": "As a user, I can export data.",
	})
	require.Equal(t, nethttp.StatusOK, w.Code)

	result := out["result"].(map[string]any)
	assert.Equal(t, "As a user, I can export data.", result["story"])
	assert.Equal(t, "What is good:\n- Clear actor.", result["feedback"])
}

func TestStoryFeedbackRequiresStory(t *testing.T) {
	r := newTestRouter(t, "unused")
	id := seedProjectID(t, r)

	w, _ := do(t, r, nethttp.MethodPost, "/projects/"+id+"/feedback", gin.H{"story": "  "})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestStoryFeedbackUnknownProject(t *testing.T) {
	r := newTestRouter(t, "irrelevant")

	w, _ := do(t, r, nethttp.MethodPost, "/projects/missing/feedback", gin.H{"story": "a story"})
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestStoryFeedbackWithoutCredential(t *testing.T) {
	r := newTestRouter(t, "")
	id := seedProjectID(t, r)

	w, out := do(t, r, nethttp.MethodPost, "/projects/"+id+"/feedback", gin.H{"story": "a story"})
	assert.Equal(t, nethttp.StatusServiceUnavailable, w.Code)
	assert.Contains(t, out["error"], "OPENROUTER_API_KEY")
}

func TestAssessRiskEndpoint(t *testing.T) {
	r := newTestRouter(t, `{"riskScore":65,"readinessScore":30,"breakdown":[{"dimension":"Clarity","score":40,"why":"vague"}]}`)
	id := seedProjectID(t, r)

	w, out := do(t, r, nethttp.MethodPost, "/projects/"+id+"/risk", nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	p := out["project"].(map[string]any)
	assert.Equal(t, float64(65), p["riskScore"])
	assert.Equal(t, float64(30), p["readinessScore"])
}

func TestAssessRiskBadReply(t *testing.T) {
	r := newTestRouter(t, "I cannot produce JSON today")
	id := seedProjectID(t, r)

	w, _ := do(t, r, nethttp.MethodPost, "/projects/"+id+"/risk", nil)
	assert.Equal(t, nethttp.StatusBadGateway, w.Code)
}

func TestGenerateOptionsEndpoint(t *testing.T) {
	r := newTestRouter(t, `{"options":[{"name":"Habit Tracker","description":"Track habits","nextDeadline":"","techStack":["Go"],"userStories":[]}]}`)

	w, out := do(t, r, nethttp.MethodPost, "/assist/options", gin.H{"summary": "personal productivity"})
	require.Equal(t, nethttp.StatusOK, w.Code)
	require.Len(t, out["options"], 1)

	w, _ = do(t, r, nethttp.MethodPost, "/assist/options", gin.H{"summary": "   "})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestAcceptOptionValidation(t *testing.T) {
	r := newTestRouter(t, "unused")

	w, _ := do(t, r, nethttp.MethodPost, "/assist/options/accept", gin.H{
		"option": gin.H{"name": "  "},
	})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestRouter(t, "unused")

	w, out := do(t, r, nethttp.MethodGet, "/assist/status", nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	ops := out["operations"].(map[string]any)
	for _, name := range []string{"feedback", "options", "risk"} {
		st := ops[name].(map[string]any)
		assert.Equal(t, "idle", st["state"], "operation %s", name)
	}
}
