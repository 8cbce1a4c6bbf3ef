// controllers/note_test.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesnotes-backend/models"
	"salesnotes-backend/services"
)

// ---- collaborator stubs ----

type stubCatalog struct {
	customers map[string]models.Customer
	addresses map[string]models.Address
	products  map[string]models.Product
	err       error
}

func (s *stubCatalog) GetCustomer(id string) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *stubCatalog) GetAddress(id string) (*models.Address, error) {
	if s.err != nil {
		return nil, s.err
	}
	if a, ok := s.addresses[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *stubCatalog) GetProduct(id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

type stubStore struct {
	notes    map[uuid.UUID]models.SalesNote
	items    map[uuid.UUID][]models.LineItem
	tracking map[uuid.UUID]models.TrackingMetadata
}

func newStubStore() *stubStore {
	return &stubStore{
		notes:    map[uuid.UUID]models.SalesNote{},
		items:    map[uuid.UUID][]models.LineItem{},
		tracking: map[uuid.UUID]models.TrackingMetadata{},
	}
}

func (s *stubStore) CreateNote(note *models.SalesNote) error {
	s.notes[note.NoteID] = *note
	return nil
}

func (s *stubStore) CreateLineItem(item *models.LineItem) error {
	s.items[item.NoteID] = append(s.items[item.NoteID], *item)
	return nil
}

func (s *stubStore) CreateTracking(tracking *models.TrackingMetadata) error {
	s.tracking[tracking.NoteID] = *tracking
	return nil
}

func (s *stubStore) GetNote(id uuid.UUID) (*models.SalesNote, error) {
	if note, ok := s.notes[id]; ok {
		return &note, nil
	}
	return nil, nil
}

func (s *stubStore) ListNotes() ([]models.SalesNote, error) {
	var out []models.SalesNote
	for _, n := range s.notes {
		out = append(out, n)
	}
	return out, nil
}

func (s *stubStore) ListLineItems(noteID uuid.UUID) ([]models.LineItem, error) {
	return s.items[noteID], nil
}

func (s *stubStore) GetTracking(noteID uuid.UUID) (*models.TrackingMetadata, error) {
	if t, ok := s.tracking[noteID]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *stubStore) MarkDownloaded(noteID uuid.UUID) error {
	if t, ok := s.tracking[noteID]; ok {
		t.Downloaded = true
		s.tracking[noteID] = t
	}
	return nil
}

func (s *stubStore) IncrementSendCount(noteID uuid.UUID) error {
	if t, ok := s.tracking[noteID]; ok {
		t.SendCount++
		t.LastSentAt = time.Now()
		s.tracking[noteID] = t
	}
	return nil
}

type stubArchive struct {
	objects map[string][]byte
	missing bool
}

func newStubArchive() *stubArchive {
	return &stubArchive{objects: map[string][]byte{}}
}

func (s *stubArchive) Store(key string, pdf []byte) error {
	s.objects[key] = pdf
	return nil
}

func (s *stubArchive) Fetch(key string) ([]byte, error) {
	if s.missing {
		return nil, services.ErrArtifactMissing
	}
	if b, ok := s.objects[key]; ok {
		return b, nil
	}
	return nil, services.ErrArtifactMissing
}

func (s *stubArchive) ReadMetadata(key string) (*services.ObjectTracking, error) {
	if s.missing {
		return nil, services.ErrArtifactMissing
	}
	return &services.ObjectTracking{SendCount: 1}, nil
}

func (s *stubArchive) MarkDownloaded(key string) error {
	if s.missing {
		return services.ErrArtifactMissing
	}
	return nil
}

func (s *stubArchive) IncrementSendCount(key string) error {
	if s.missing {
		return services.ErrArtifactMissing
	}
	return nil
}

type stubRenderer struct{}

func (s *stubRenderer) Render(doc services.NoteDocument) ([]byte, error) {
	return []byte("%PDF-stub " + doc.Folio), nil
}

type stubNotifier struct {
	done chan struct{}
}

func (s *stubNotifier) Send(recipient, folio, noteID string) error {
	s.done <- struct{}{}
	return nil
}

// ---- harness ----

func seededStubCatalog() *stubCatalog {
	return &stubCatalog{
		customers: map[string]models.Customer{
			"CUST-1": {ID: "CUST-1", LegalName: "Acme SA de CV", TaxID: "AAA010101AAA", Email: "billing@acme.mx"},
		},
		addresses: map[string]models.Address{
			"ADDR-BILL":  {ID: "ADDR-BILL", CustomerID: "CUST-1", Kind: models.AddressKindBilling},
			"ADDR-SHIP":  {ID: "ADDR-SHIP", CustomerID: "CUST-1", Kind: models.AddressKindShipping},
			"ADDR-OTHER": {ID: "ADDR-OTHER", CustomerID: "CUST-2", Kind: models.AddressKindBilling},
		},
		products: map[string]models.Product{
			"PROD-1": {ID: "PROD-1", Name: "Widget"},
		},
	}
}

type noteTestEnv struct {
	router   *gin.Engine
	store    *stubStore
	catalog  *stubCatalog
	archive  *stubArchive
	notifier *stubNotifier
}

func newNoteTestEnv() *noteTestEnv {
	gin.SetMode(gin.TestMode)

	store := newStubStore()
	catalog := seededStubCatalog()
	archive := newStubArchive()
	notifier := &stubNotifier{done: make(chan struct{}, 8)}

	ctl := NewNoteController(services.NewNoteService(store, catalog, &stubRenderer{}, archive, notifier))

	r := gin.New()
	r.POST("/api/sales-notes", ctl.CreateNote)
	r.GET("/api/sales-notes", ctl.ListNotes)
	r.GET("/api/sales-notes/:id", ctl.GetNote)
	r.GET("/api/sales-notes/:id/pdf", ctl.DownloadNote)
	r.POST("/api/sales-notes/:id/send", ctl.ResendNote)

	return &noteTestEnv{router: r, store: store, catalog: catalog, archive: archive, notifier: notifier}
}

func (e *noteTestEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (e *noteTestEnv) createNote(t *testing.T) string {
	t.Helper()
	w, body := e.do(t, http.MethodPost, "/api/sales-notes",
		`{"customerId":"CUST-1","billingAddressId":"ADDR-BILL","shippingAddressId":"ADDR-SHIP","items":[{"productId":"PROD-1","quantity":2,"unitPrice":10.00}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	select {
	case <-e.notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
	}
	note := body["note"].(map[string]interface{})
	return note["noteId"].(string)
}

// ---- tests ----

func TestCreateNoteStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		catalogErr error
		wantStatus int
		wantClass  string
	}{
		{
			name:       "missing required field",
			body:       `{"billingAddressId":"ADDR-BILL","shippingAddressId":"ADDR-SHIP","items":[{"productId":"PROD-1","quantity":1,"unitPrice":1}]}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  services.ClassBadRequest,
		},
		{
			name:       "unknown customer",
			body:       `{"customerId":"CUST-MISSING","billingAddressId":"ADDR-BILL","shippingAddressId":"ADDR-SHIP","items":[{"productId":"PROD-1","quantity":1,"unitPrice":1}]}`,
			wantStatus: http.StatusNotFound,
			wantClass:  services.ClassReferenceNotFound,
		},
		{
			name:       "billing address of another customer",
			body:       `{"customerId":"CUST-1","billingAddressId":"ADDR-OTHER","shippingAddressId":"ADDR-SHIP","items":[{"productId":"PROD-1","quantity":1,"unitPrice":1}]}`,
			wantStatus: http.StatusConflict,
			wantClass:  services.ClassReferenceConflict,
		},
		{
			name:       "catalog unreachable",
			body:       `{"customerId":"CUST-1","billingAddressId":"ADDR-BILL","shippingAddressId":"ADDR-SHIP","items":[{"productId":"PROD-1","quantity":1,"unitPrice":1}]}`,
			catalogErr: &services.CommunicationError{Collaborator: "catalog", Err: errors.New("connection refused")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newNoteTestEnv()
			env.catalog.err = tc.catalogErr

			w, body := env.do(t, http.MethodPost, "/api/sales-notes", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)

			if tc.wantClass != "" {
				assert.Equal(t, tc.wantClass, body["class"])
				assert.NotEmpty(t, body["detail"])
			} else {
				// post-validation faults come back generic, nothing internal leaks
				assert.Equal(t, "Internal server error", body["error"])
				assert.NotContains(t, w.Body.String(), "connection refused")
			}
		})
	}
}

func TestCreateNoteCreated(t *testing.T) {
	env := newNoteTestEnv()

	w, body := env.do(t, http.MethodPost, "/api/sales-notes",
		`{"customerId":"CUST-1","billingAddressId":"ADDR-BILL","shippingAddressId":"ADDR-SHIP","items":[{"productId":"PROD-1","quantity":2,"unitPrice":10.00}]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	note := body["note"].(map[string]interface{})
	assert.Regexp(t, `^NV-\d+$`, note["folio"])
	assert.Equal(t, 20.00, note["total"])
}

func TestCreateNoteMalformedJSON(t *testing.T) {
	env := newNoteTestEnv()
	w, _ := env.do(t, http.MethodPost, "/api/sales-notes", `{"customerId":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNoteStatuses(t *testing.T) {
	env := newNoteTestEnv()

	w, _ := env.do(t, http.MethodGet, "/api/sales-notes/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := env.do(t, http.MethodGet, "/api/sales-notes/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Sales note not found", body["error"])
	assert.Nil(t, body["class"], "a plain unknown note carries no classification")

	noteID := env.createNote(t)
	w, body = env.do(t, http.MethodGet, "/api/sales-notes/"+noteID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, body["note"])
	assert.NotNil(t, body["items"])
}

func TestDownloadArtifactMissingIsDistinctFromNotFound(t *testing.T) {
	env := newNoteTestEnv()
	noteID := env.createNote(t)

	// unknown note: plain 404
	w, body := env.do(t, http.MethodGet, "/api/sales-notes/"+uuid.NewString()+"/pdf", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Sales note not found", body["error"])
	assert.Nil(t, body["class"])

	// known note whose artifact never landed: 404 with its own class
	env.archive.missing = true
	w, body = env.do(t, http.MethodGet, "/api/sales-notes/"+noteID+"/pdf", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Archived document missing", body["error"])
	assert.Equal(t, "ARTIFACT_MISSING", body["class"])
}

func TestDownloadStreamsPDF(t *testing.T) {
	env := newNoteTestEnv()
	noteID := env.createNote(t)

	w, _ := env.do(t, http.MethodGet, "/api/sales-notes/"+noteID+"/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="NV-`)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestResendNoteAccepted(t *testing.T) {
	env := newNoteTestEnv()
	noteID := env.createNote(t)

	w, body := env.do(t, http.MethodPost, "/api/sales-notes/"+noteID+"/send", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	note := body["note"].(map[string]interface{})
	assert.Equal(t, float64(2), note["sendCount"])

	select {
	case <-env.notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("resend never dispatched a notification")
	}
}
