package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"salesnotes-backend/models"
)

// Catalog resolves reference entities owned by the catalog
// microservice. Lookups return nil with no error when the id is
// unknown; any other failure is a CommunicationError.
type Catalog interface {
	GetCustomer(id string) (*models.Customer, error)
	GetAddress(id string) (*models.Address, error)
	GetProduct(id string) (*models.Product, error)
}

type CatalogService struct {
	baseURL string
	http    *http.Client
}

func NewCatalogService(baseURL string) *CatalogService {
	return &CatalogService{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *CatalogService) GetCustomer(id string) (*models.Customer, error) {
	var payload struct {
		Customer *models.Customer `json:"customer"`
	}
	found, err := s.getJSON("/api/customers/"+id, &payload)
	if err != nil || !found {
		return nil, err
	}
	return payload.Customer, nil
}

func (s *CatalogService) GetAddress(id string) (*models.Address, error) {
	var payload struct {
		Address *models.Address `json:"address"`
	}
	found, err := s.getJSON("/api/addresses/"+id, &payload)
	if err != nil || !found {
		return nil, err
	}
	return payload.Address, nil
}

func (s *CatalogService) GetProduct(id string) (*models.Product, error) {
	var payload struct {
		Product *models.Product `json:"product"`
	}
	found, err := s.getJSON("/api/products/"+id, &payload)
	if err != nil || !found {
		return nil, err
	}
	return payload.Product, nil
}

func (s *CatalogService) getJSON(path string, out interface{}) (bool, error) {
	resp, err := s.http.Get(s.baseURL + path)
	if err != nil {
		return false, &CommunicationError{Collaborator: "catalog", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return false, &CommunicationError{
			Collaborator: "catalog",
			Err:          fmt.Errorf("catalog api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, &CommunicationError{Collaborator: "catalog", Err: err}
	}
	return true, nil
}
