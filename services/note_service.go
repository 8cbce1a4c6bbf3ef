package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"salesnotes-backend/config"
	"salesnotes-backend/models"
	"salesnotes-backend/utils"
)

// NoteItemInput is one requested product line. Quantity and UnitPrice
// are pointers so a missing field can be told apart from a zero.
type NoteItemInput struct {
	ProductID string   `json:"productId"`
	Quantity  *int     `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice"`
}

type CreateNoteInput struct {
	CustomerID        string          `json:"customerId"`
	BillingAddressID  string          `json:"billingAddressId"`
	ShippingAddressID string          `json:"shippingAddressId"`
	Items             []NoteItemInput `json:"items"`
}

type CreateNoteResult struct {
	NoteID uuid.UUID `json:"noteId"`
	Folio  string    `json:"folio"`
	Total  float64   `json:"total"`
}

type NoteDetails struct {
	Note     models.SalesNote         `json:"note"`
	Items    []models.LineItem        `json:"items"`
	Tracking *models.TrackingMetadata `json:"tracking"`
}

type DownloadResult struct {
	Bytes    []byte
	Filename string
}

type ResendResult struct {
	NoteID    uuid.UUID `json:"noteId"`
	Folio     string    `json:"folio"`
	SendCount int       `json:"sendCount"`
}

// NoteService sequences the whole fulfillment: validate against the
// catalog, price, persist the three record sets, render, archive,
// notify. Writes are never compensated: a failure after the first
// write leaves the earlier records in place, and the retrieval path
// tolerates the resulting partial state.
type NoteService struct {
	store    NoteStore
	catalog  Catalog
	renderer Renderer
	archive  Archive
	notifier Notifier
	logger   *logrus.Logger
}

func NewNoteService(store NoteStore, catalog Catalog, renderer Renderer, archive Archive, notifier Notifier) *NoteService {
	return &NoteService{
		store:    store,
		catalog:  catalog,
		renderer: renderer,
		archive:  archive,
		notifier: notifier,
		logger:   config.GetLogger(),
	}
}

type referenceBundle struct {
	Customer *models.Customer
	Billing  *models.Address
	Shipping *models.Address
	// Products aligns index-for-index with the request items.
	Products []models.Product
}

// validate resolves and cross-checks every reference the request
// names. It short-circuits on the first failure, in a fixed order, so
// a request with several defects always reports the same one.
func (s *NoteService) validate(input CreateNoteInput) (*referenceBundle, error) {
	if input.CustomerID == "" || input.BillingAddressID == "" || input.ShippingAddressID == "" || input.Items == nil {
		return nil, badRequest("Missing required fields",
			"customerId, billingAddressId, shippingAddressId and items are required")
	}
	if len(input.Items) == 0 {
		return nil, badRequest("Invalid items", "items must contain at least one product")
	}

	for i, item := range input.Items {
		if item.ProductID == "" || item.Quantity == nil || item.UnitPrice == nil {
			return nil, badRequest("Invalid line item",
				fmt.Sprintf("item %d must have productId, quantity and unitPrice", i))
		}
		if *item.Quantity <= 0 {
			return nil, badRequest("Invalid quantity",
				fmt.Sprintf("item %d quantity must be greater than 0", i))
		}
		if *item.UnitPrice < 0 {
			return nil, badRequest("Invalid unit price",
				fmt.Sprintf("item %d unit price cannot be negative", i))
		}
	}

	customer, err := s.catalog.GetCustomer(input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, referenceNotFound("Customer not found",
			"no customer with ID "+input.CustomerID)
	}

	billing, err := s.catalog.GetAddress(input.BillingAddressID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		return nil, referenceNotFound("Billing address not found",
			"no address with ID "+input.BillingAddressID)
	}
	if billing.CustomerID != input.CustomerID {
		return nil, referenceConflict("Billing address does not belong to the customer",
			"the billing address belongs to another customer")
	}
	if billing.Kind != models.AddressKindBilling {
		return nil, referenceConflict("Incorrect address kind",
			"the billing address must be of kind BILLING")
	}

	shipping, err := s.catalog.GetAddress(input.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return nil, referenceNotFound("Shipping address not found",
			"no address with ID "+input.ShippingAddressID)
	}
	if shipping.CustomerID != input.CustomerID {
		return nil, referenceConflict("Shipping address does not belong to the customer",
			"the shipping address belongs to another customer")
	}
	if shipping.Kind != models.AddressKindShipping {
		return nil, referenceConflict("Incorrect address kind",
			"the shipping address must be of kind SHIPPING")
	}

	products := make([]models.Product, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.catalog.GetProduct(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, referenceNotFound("Product not found",
				"no product with ID "+item.ProductID)
		}
		products = append(products, *product)
	}

	return &referenceBundle{
		Customer: customer,
		Billing:  billing,
		Shipping: shipping,
		Products: products,
	}, nil
}

// priceLines computes each line amount and the running total,
// accumulated left to right in float64. Order matters only for
// floating-point rounding, a known limitation kept as-is.
func priceLines(items []NoteItemInput) ([]float64, float64) {
	amounts := make([]float64, len(items))
	var total float64
	for i, item := range items {
		amount := float64(*item.Quantity) * *item.UnitPrice
		amounts[i] = amount
		total += amount
	}
	return amounts, total
}

func (s *NoteService) Create(input CreateNoteInput) (*CreateNoteResult, error) {
	bundle, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	amounts, total := priceLines(input.Items)

	noteID := uuid.New()
	now := time.Now()
	folio := utils.NewFolio(now)

	note := &models.SalesNote{
		NoteID:            noteID,
		Folio:             folio,
		CustomerID:        input.CustomerID,
		BillingAddressID:  input.BillingAddressID,
		ShippingAddressID: input.ShippingAddressID,
		Total:             total,
		CreatedAt:         now,
	}
	if err := s.store.CreateNote(note); err != nil {
		return nil, err
	}

	lines := make([]DocumentLine, 0, len(input.Items))
	for i, item := range input.Items {
		lineItem := &models.LineItem{
			ItemID:    uuid.New(),
			NoteID:    noteID,
			ProductID: item.ProductID,
			Quantity:  *item.Quantity,
			UnitPrice: *item.UnitPrice,
			Amount:    amounts[i],
		}
		if err := s.store.CreateLineItem(lineItem); err != nil {
			return nil, err
		}
		lines = append(lines, DocumentLine{
			Quantity:  lineItem.Quantity,
			Product:   bundle.Products[i],
			UnitPrice: lineItem.UnitPrice,
			Amount:    lineItem.Amount,
		})
	}

	tracking := &models.TrackingMetadata{
		NoteID:     noteID,
		SendCount:  1,
		Downloaded: false,
		LastSentAt: now,
	}
	if err := s.store.CreateTracking(tracking); err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(NoteDocument{
		Customer: *bundle.Customer,
		Folio:    folio,
		Lines:    lines,
		Total:    total,
	})
	if err != nil {
		return nil, err
	}

	if err := s.archive.Store(utils.ArchiveKey(bundle.Customer.TaxID, folio), pdf); err != nil {
		return nil, err
	}

	s.dispatchNotification(bundle.Customer.Email, folio, noteID.String())

	return &CreateNoteResult{NoteID: noteID, Folio: folio, Total: total}, nil
}

// dispatchNotification is fire-and-forget: the outcome never reaches
// the caller, failures are logged and dropped.
func (s *NoteService) dispatchNotification(recipient, folio, noteID string) {
	go func() {
		if err := s.notifier.Send(recipient, folio, noteID); err != nil {
			config.LogError(s.logger, "services", "dispatchNotification", "folio "+folio, err)
		}
	}()
}

func (s *NoteService) Get(id uuid.UUID) (*NoteDetails, error) {
	note, err := s.store.GetNote(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	items, err := s.store.ListLineItems(id)
	if err != nil {
		return nil, err
	}
	tracking, err := s.store.GetTracking(id)
	if err != nil {
		return nil, err
	}

	return &NoteDetails{Note: *note, Items: items, Tracking: tracking}, nil
}

func (s *NoteService) List() ([]models.SalesNote, error) {
	return s.store.ListNotes()
}

// Download streams the archived document back out and reconciles the
// downloaded flag on both representations: object metadata first, then
// the record store. The two updates are independent and non-atomic.
func (s *NoteService) Download(id uuid.UUID) (*DownloadResult, error) {
	note, err := s.store.GetNote(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	customer, err := s.catalog.GetCustomer(note.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, referenceNotFound("Customer not found",
			"the customer associated with the note no longer exists")
	}

	key := utils.ArchiveKey(customer.TaxID, note.Folio)
	pdf, err := s.archive.Fetch(key)
	if err != nil {
		return nil, err
	}

	if err := s.archive.MarkDownloaded(key); err != nil {
		return nil, err
	}
	if err := s.store.MarkDownloaded(id); err != nil {
		return nil, err
	}

	return &DownloadResult{Bytes: pdf, Filename: utils.ArchiveFilename(note.Folio)}, nil
}

// Resend re-dispatches the customer notification and bumps the send
// counter in both the object metadata and the record store.
func (s *NoteService) Resend(id uuid.UUID) (*ResendResult, error) {
	note, err := s.store.GetNote(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	customer, err := s.catalog.GetCustomer(note.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, referenceNotFound("Customer not found",
			"the customer associated with the note no longer exists")
	}

	key := utils.ArchiveKey(customer.TaxID, note.Folio)
	if err := s.archive.IncrementSendCount(key); err != nil {
		return nil, err
	}
	if err := s.store.IncrementSendCount(id); err != nil {
		return nil, err
	}

	s.dispatchNotification(customer.Email, note.Folio, note.NoteID.String())

	tracking, err := s.store.GetTracking(id)
	if err != nil {
		return nil, err
	}
	count := 0
	if tracking != nil {
		count = tracking.SendCount
	}
	return &ResendResult{NoteID: note.NoteID, Folio: note.Folio, SendCount: count}, nil
}
