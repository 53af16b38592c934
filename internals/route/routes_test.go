package routes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"thesisflow_backend/internals/configs"
	"thesisflow_backend/internals/helpers/storage"
	"thesisflow_backend/internals/middlewares"
	"thesisflow_backend/internals/repository/memstore"
	routeDetails "thesisflow_backend/internals/route/details"
	identitySeed "thesisflow_backend/internals/seeds/identity"
)

const testSecret = "test-secret"

var minimalPDF = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << /Root 1 0 R >>\n%%EOF\n")

type harness struct {
	t   *testing.T
	app *fiber.App
	ds  *identitySeed.Dataset
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	configs.JWTSecret = testSecret

	store := memstore.New()
	ds := identitySeed.Demo(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := identitySeed.Apply(context.Background(), store, ds); err != nil {
		t.Fatalf("seed: %v", err)
	}
	blobs, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	middlewares.SetupMiddlewares(app)
	SetupRoutes(app, routeDetails.NewServices(store, blobs), nil)
	return &harness{t: t, app: app, ds: ds}
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

type response struct {
	Status int
	Body   map[string]any
}

func (r response) data() map[string]any {
	m, _ := r.Body["data"].(map[string]any)
	return m
}

func (h *harness) send(req *http.Request, tok string) response {
	h.t.Helper()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	res, err := h.app.Test(req, -1)
	if err != nil {
		h.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	out := response{Status: res.StatusCode}
	_ = sonic.Unmarshal(raw, &out.Body)
	return out
}

func (h *harness) do(method, path, tok string, body any) response {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, tok)
}

func (h *harness) upload(path, tok, filename string, content []byte) response {
	h.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		h.t.Fatalf("form: %v", err)
	}
	_, _ = fw.Write(content)
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return h.send(req, tok)
}

func expect(t *testing.T, step string, r response, status int) {
	t.Helper()
	if r.Status != status {
		t.Fatalf("%s: status = %d, want %d (body %v)", step, r.Status, status, r.Body)
	}
}

func TestHealthAndAuth(t *testing.T) {
	h := newHarness(t)

	expect(t, "health", h.do(http.MethodGet, "/api/public/health", "", nil), fiber.StatusOK)
	expect(t, "no token", h.do(http.MethodGet, "/api/u/theses/list", "", nil), fiber.StatusUnauthorized)
	expect(t, "bad token", h.do(http.MethodGet, "/api/u/theses/list", "nope", nil), fiber.StatusUnauthorized)

	// a user that is neither student nor teacher
	stranger := token(t, uuid.New())
	r := h.do(http.MethodGet, "/api/u/theses/list", stranger, nil)
	if r.Status != fiber.StatusNotFound && r.Status != fiber.StatusForbidden {
		t.Fatalf("unknown user: status = %d", r.Status)
	}

	student := token(t, h.ds.Students[0].UserID)
	expect(t, "student on admin group", h.do(http.MethodPost, "/api/a/defense-dates", student, map[string]any{}), fiber.StatusForbidden)
}

func TestErrorMapping(t *testing.T) {
	h := newHarness(t)
	sup := token(t, h.ds.Teachers[0].UserID)

	r := h.do(http.MethodGet, "/api/u/theses/"+uuid.NewString(), sup, nil)
	expect(t, "missing thesis", r, fiber.StatusNotFound)
	if r.Body["error_code"] != "NOT_FOUND" {
		t.Fatalf("error_code = %v", r.Body["error_code"])
	}

	expect(t, "malformed id", h.do(http.MethodGet, "/api/u/theses/not-a-uuid", sup, nil), fiber.StatusBadRequest)
}

func TestThesisLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t)
	ds := h.ds
	student := token(t, ds.Students[0].UserID)
	sup := token(t, ds.Teachers[0].UserID)
	head := token(t, ds.Teachers[1].UserID)
	ex := []string{token(t, ds.Teachers[2].UserID), token(t, ds.Teachers[3].UserID), token(t, ds.Teachers[4].UserID)}

	// proposal
	r := h.do(http.MethodPost, "/api/u/proposals", student, map[string]any{
		"proposal_teacher_id":    ds.Teachers[0].ID.String(),
		"proposal_department_id": ds.Departments[0].ID.String(),
		"proposal_title":         "Gossip protocols under churn",
		"proposal_goal":          "Bound convergence time",
		"proposal_technologies":  []string{"Go"},
	})
	expect(t, "submit proposal", r, fiber.StatusCreated)
	pid := r.data()["proposal_id"].(string)

	status := "/api/u/proposals/" + pid + "/status"
	expect(t, "student decides", h.do(http.MethodPatch, status, student, map[string]any{"proposal_status": "APPROVED"}), fiber.StatusForbidden)
	expect(t, "unrelated teacher decides", h.do(http.MethodPatch, status, ex[0], map[string]any{"proposal_status": "APPROVED"}), fiber.StatusForbidden)

	r = h.do(http.MethodPatch, status, head, map[string]any{"proposal_status": "approved"})
	expect(t, "head approves", r, fiber.StatusOK)
	thesis, _ := r.data()["thesis"].(map[string]any)
	if thesis == nil {
		t.Fatalf("approval returned no thesis: %v", r.Body)
	}
	tid := thesis["thesis_id"].(string)

	r = h.do(http.MethodPatch, status, sup, map[string]any{"proposal_status": "REJECTED"})
	expect(t, "decide twice", r, fiber.StatusConflict)
	if r.Body["error_code"] != "INVALID_TRANSITION" {
		t.Fatalf("error_code = %v", r.Body["error_code"])
	}

	// review round one
	reviews := "/api/u/theses/" + tid + "/reviews"
	expect(t, "non-supervisor review", h.do(http.MethodPost, reviews, ex[0], map[string]any{"review_content": "x", "review_conclusion": "ACCEPTED"}), fiber.StatusForbidden)
	expect(t, "reject", h.do(http.MethodPost, reviews, sup, map[string]any{"review_content": "Needs a baseline.", "review_conclusion": "REJECTED"}), fiber.StatusCreated)

	// document
	doc := "/api/u/theses/" + tid + "/document"
	expect(t, "non-pdf upload", h.upload(doc, student, "thesis.pdf", []byte("plain text, not a pdf")), fiber.StatusUnsupportedMediaType)
	expect(t, "teacher uploads", h.upload(doc, sup, "thesis.pdf", minimalPDF), fiber.StatusForbidden)
	r = h.upload(doc, student, "thesis.pdf", minimalPDF)
	expect(t, "pdf upload", r, fiber.StatusCreated)
	if ref, _ := r.data()["pdf_ref"].(string); ref == "" {
		t.Fatalf("no pdf_ref: %v", r.Body)
	}

	// review round two
	expect(t, "accept", h.do(http.MethodPost, reviews, sup, map[string]any{"review_content": "Good.", "review_conclusion": "accepted"}), fiber.StatusCreated)
	r = h.do(http.MethodGet, "/api/u/theses/"+tid+"/can-defend", student, nil)
	expect(t, "can defend", r, fiber.StatusOK)
	if r.data()["can_proceed"] != true {
		t.Fatalf("can_proceed = %v", r.data()["can_proceed"])
	}
	expect(t, "request defense", h.do(http.MethodPost, "/api/u/theses/"+tid+"/request-defense", student, nil), fiber.StatusOK)

	// scheduling
	r = h.do(http.MethodPost, "/api/a/defense-dates", head, map[string]any{"defense_date_day": "2025-06-20", "defense_date_venue": "Hall 2"})
	expect(t, "defense date", r, fiber.StatusCreated)
	dateID := r.data()["defense_date_id"].(string)

	r = h.do(http.MethodPost, "/api/a/theses/"+tid+"/defense", head, map[string]any{"defense_date_id": dateID, "scheduled_at": "2025-06-20T10:00:00Z"})
	expect(t, "schedule", r, fiber.StatusCreated)
	sid := r.data()["defense_session_id"].(string)

	for i := 0; i < 3; i++ {
		expect(t, "assign", h.do(http.MethodPost, "/api/a/defense-sessions/"+sid+"/examiners", head, map[string]any{"examiner_id": ds.Teachers[2+i].ID.String()}), fiber.StatusCreated)
	}
	expect(t, "assign twice", h.do(http.MethodPost, "/api/a/defense-sessions/"+sid+"/examiners", head, map[string]any{"examiner_id": ds.Teachers[2].ID.String()}), fiber.StatusConflict)

	// grading
	grade := "/api/u/defense-sessions/" + sid + "/grade"
	expect(t, "grade out of range", h.do(http.MethodPut, grade, ex[0], map[string]any{"grade": 101}), fiber.StatusUnprocessableEntity)
	expect(t, "grade 85", h.do(http.MethodPut, grade, ex[0], map[string]any{"grade": 85}), fiber.StatusOK)
	r = h.do(http.MethodPut, grade, ex[1], map[string]any{"grade": 90})
	expect(t, "grade 90", r, fiber.StatusOK)
	if r.data()["all_graded"] != false || r.data()["average"] != nil {
		t.Fatalf("after two grades: %v", r.data())
	}
	r = h.do(http.MethodPut, grade, ex[2], map[string]any{"grade": 70})
	expect(t, "grade 70", r, fiber.StatusOK)
	if r.data()["finalized"] != true {
		t.Fatalf("last grade did not finalize: %v", r.data())
	}

	r = h.do(http.MethodGet, "/api/u/theses/"+tid, student, nil)
	expect(t, "overview", r, fiber.StatusOK)
	th := r.data()["thesis"].(map[string]any)
	if th["thesis_status"] != "DEFENDED" || th["thesis_final_grade"] != 4.9 {
		t.Fatalf("outcome = %v %v", th["thesis_status"], th["thesis_final_grade"])
	}
}

func TestCommentsOverHTTP(t *testing.T) {
	h := newHarness(t)
	ds := h.ds
	student := token(t, ds.Students[0].UserID)
	sup := token(t, ds.Teachers[0].UserID)
	head := token(t, ds.Teachers[1].UserID)

	r := h.do(http.MethodPost, "/api/u/proposals", student, map[string]any{
		"proposal_teacher_id":    ds.Teachers[0].ID.String(),
		"proposal_department_id": ds.Departments[0].ID.String(),
		"proposal_title":         "Edge caching",
		"proposal_goal":          "Reduce tail latency",
	})
	expect(t, "submit", r, fiber.StatusCreated)
	r = h.do(http.MethodPatch, "/api/u/proposals/"+r.data()["proposal_id"].(string)+"/status", sup, map[string]any{"proposal_status": "APPROVED"})
	expect(t, "supervisor approves", r, fiber.StatusOK)
	tid := r.data()["thesis"].(map[string]any)["thesis_id"].(string)

	r = h.do(http.MethodPost, "/api/u/theses/"+tid+"/reviews", sup, map[string]any{"review_content": "Chapter 2 is thin.", "review_conclusion": "REJECTED"})
	expect(t, "review", r, fiber.StatusCreated)
	rid := r.data()["review"].(map[string]any)["review_id"].(string)

	r = h.do(http.MethodPost, "/api/u/reviews/"+rid+"/comments", student, map[string]any{"comment_text": "Expanding it."})
	expect(t, "comment", r, fiber.StatusCreated)
	cid := r.data()["comment_id"].(string)

	expect(t, "edit by other", h.do(http.MethodPatch, "/api/u/comments/"+cid, head, map[string]any{"comment_text": "x"}), fiber.StatusForbidden)
	expect(t, "edit by author", h.do(http.MethodPatch, "/api/u/comments/"+cid, student, map[string]any{"comment_text": "Expanded."}), fiber.StatusOK)

	r = h.do(http.MethodGet, "/api/u/reviews/"+rid+"/comments", sup, nil)
	expect(t, "list", r, fiber.StatusOK)
	if rows, _ := r.Body["data"].([]any); len(rows) != 1 {
		t.Fatalf("comments = %v", r.Body["data"])
	}

	expect(t, "delete by author", h.do(http.MethodDelete, "/api/u/comments/"+cid, student, nil), fiber.StatusOK)
	expect(t, "delete again", h.do(http.MethodDelete, "/api/u/comments/"+cid, student, nil), fiber.StatusNotFound)
}
