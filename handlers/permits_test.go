package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"p9e.in/permits/models"
)

// fakeRepo is an in-memory PermitRepository mirroring the store's
// contracts: create forces pending, decide runs the state machine,
// list is newest first.
type fakeRepo struct {
	permits map[uuid.UUID]*models.WorkPermit
	files   map[uuid.UUID][]models.PermitFile
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		permits: make(map[uuid.UUID]*models.WorkPermit),
		files:   make(map[uuid.UUID][]models.PermitFile),
	}
}

func (f *fakeRepo) CreatePermit(p *models.WorkPermit) error {
	p.ID = uuid.New()
	p.ApprovalStatus = models.StatusPending
	p.ApprovalDate = nil
	p.ApproverSignature = nil
	p.ApprovalIncompleteReason = nil
	p.CreatedAt = time.Now()
	f.permits[p.ID] = p
	return nil
}

func (f *fakeRepo) GetPermit(id uuid.UUID) (*models.WorkPermit, error) {
	p, ok := f.permits[id]
	if !ok {
		return nil, models.ErrPermitNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) ListPermits() ([]models.WorkPermit, error) {
	out := make([]models.WorkPermit, 0, len(f.permits))
	for _, p := range f.permits {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeRepo) UpdatePermit(id uuid.UUID, updated *models.WorkPermit) (*models.WorkPermit, error) {
	p, ok := f.permits[id]
	if !ok {
		return nil, models.ErrPermitNotFound
	}
	p.WorkType = updated.WorkType
	p.ApplicantName = updated.ApplicantName
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) DecidePermit(id uuid.UUID, d models.Decision) (*models.WorkPermit, error) {
	p, ok := f.permits[id]
	if !ok {
		return nil, models.ErrPermitNotFound
	}
	if err := models.ApplyDecision(p, d, time.Now()); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) CreateFile(file *models.PermitFile) error {
	file.ID = uuid.New()
	f.files[file.PermitID] = append(f.files[file.PermitID], *file)
	return nil
}

func (f *fakeRepo) ListFiles(permitID uuid.UUID) ([]models.PermitFile, error) {
	return f.files[permitID], nil
}

func testRouter(repo *fakeRepo) *mux.Router {
	Init(repo)
	r := mux.NewRouter()
	r.HandleFunc("/permits", CreatePermit).Methods("POST")
	r.HandleFunc("/permits", ListPermits).Methods("GET")
	r.HandleFunc("/permits/{id}", GetPermit).Methods("GET")
	r.HandleFunc("/permits/{id}/review", ReviewPermit).Methods("GET")
	r.HandleFunc("/permits/{id}/decision", DecidePermit).Methods("POST")
	r.HandleFunc("/permits/{id}/files", ListPermitFiles).Methods("GET")
	return r
}

func seedPending(repo *fakeRepo) *models.WorkPermit {
	p := &models.WorkPermit{
		WorkType:      "Hot Work",
		StartDate:     "2025-09-01",
		ApplicantName: "Somchai P.",
	}
	_ = repo.CreatePermit(p)
	return p
}

func TestCreatePermitForcesPending(t *testing.T) {
	repo := newFakeRepo()
	router := testRouter(repo)

	body := []byte(`{"work_type":"Hot Work","applicant_name":"Somchai P.","approval_status":"approved"}`)
	req := httptest.NewRequest(http.MethodPost, "/permits", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.WorkPermit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.StatusPending, created.ApprovalStatus)
	assert.Nil(t, created.ApprovalDate)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestListPermitsNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	router := testRouter(repo)

	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := seedPending(repo)
		repo.permits[p.ID].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		ids = append(ids, p.ID)
	}

	req := httptest.NewRequest(http.MethodGet, "/permits", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.WorkPermit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]},
		[]uuid.UUID{listed[0].ID, listed[1].ID, listed[2].ID})
}

func TestGetPermitNotFound(t *testing.T) {
	router := testRouter(newFakeRepo())

	req := httptest.NewRequest(http.MethodGet, "/permits/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecidePermitApprove(t *testing.T) {
	repo := newFakeRepo()
	router := testRouter(repo)
	p := seedPending(repo)

	body := []byte(`{"status":"approved","signature":"Jane Doe"}`)
	req := httptest.NewRequest(http.MethodPost, "/permits/"+p.ID.String()+"/decision", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decided models.WorkPermit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decided))
	assert.Equal(t, models.StatusApproved, decided.ApprovalStatus)
	require.NotNil(t, decided.ApproverSignature)
	assert.Equal(t, "Jane Doe", *decided.ApproverSignature)
	assert.NotNil(t, decided.ApprovalDate)
	assert.Nil(t, decided.ApprovalIncompleteReason)
}

func TestDecidePermitStatusMapping(t *testing.T) {
	repo := newFakeRepo()
	router := testRouter(repo)

	decided := seedPending(repo)
	_, err := repo.DecidePermit(decided.ID, models.Decision{Status: models.StatusApproved, Signature: "Jane Doe"})
	require.NoError(t, err)

	pending := seedPending(repo)

	tests := []struct {
		name     string
		id       string
		body     string
		wantCode int
	}{
		{
			"already decided permit conflicts",
			decided.ID.String(),
			`{"status":"rejected","signature":"Jane Doe","reason":"late"}`,
			http.StatusConflict,
		},
		{
			"reject without reason is unprocessable",
			pending.ID.String(),
			`{"status":"rejected","signature":"Jane Doe"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"missing signature is unprocessable",
			pending.ID.String(),
			`{"status":"approved"}`,
			http.StatusUnprocessableEntity,
		},
		{
			"unknown id is not found",
			uuid.NewString(),
			`{"status":"approved","signature":"Jane Doe"}`,
			http.StatusNotFound,
		},
		{
			"malformed id is bad request",
			"not-a-uuid",
			`{"status":"approved","signature":"Jane Doe"}`,
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/permits/"+tt.id+"/decision", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	// The pending permit survived every refused decision untouched.
	p, err := repo.GetPermit(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.ApprovalStatus)
	assert.Nil(t, p.ApproverSignature)
}

func TestReviewPermitPayload(t *testing.T) {
	repo := newFakeRepo()
	router := testRouter(repo)

	// Permit with nothing filled in: the review must carry the full
	// ordered issue list and still render.
	p := &models.WorkPermit{}
	require.NoError(t, repo.CreatePermit(p))
	require.NoError(t, repo.CreateFile(&models.PermitFile{
		PermitID: p.ID,
		FileName: "training-cert.pdf",
		FileURL:  "/uploads/" + p.ID.String() + "/1.pdf",
	}))

	req := httptest.NewRequest(http.MethodGet, "/permits/"+p.ID.String()+"/review", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Issues []models.Issue      `json:"issues"`
		Files  []models.PermitFile `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	codes := make([]string, 0, len(payload.Issues))
	for _, i := range payload.Issues {
		codes = append(codes, i.Code)
	}
	assert.Equal(t, []string{
		"missing_work_type",
		"missing_start_date",
		"missing_applicant_name",
		"empty_work_details",
		"empty_safety_compliance",
		"empty_ppe_requirements",
	}, codes)
	require.Len(t, payload.Files, 1)
	assert.Equal(t, "training-cert.pdf", payload.Files[0].FileName)
}
