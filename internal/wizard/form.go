package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
)

// Form is the event draft as edited in the wizard
type Form struct {
	Title            string     `json:"title" validate:"required,min=3,max=100"`
	Description      string     `json:"description" validate:"required,min=10,max=5000"`
	Date             string     `json:"date" validate:"required,isodate"`
	Time             string     `json:"time" validate:"required,hhmm"`
	Location         string     `json:"location" validate:"required"`
	Address          string     `json:"address" validate:"required"`
	ImageURL1        string     `json:"image_url_1" validate:"required,url"`
	ImageURL2        string     `json:"image_url_2" validate:"required,url"`
	ImageURL3        string     `json:"image_url_3" validate:"required,url"`
	MinAge           int        `json:"min_age" validate:"gte=0,lte=18"`
	Category         string     `json:"category" validate:"required"`
	Capacity         string     `json:"capacity" validate:"required,posint"`
	Duration         string     `json:"duration" validate:"required"`
	IsPaid           bool       `json:"is_paid"`
	TicketPrice      string     `json:"ticket_price" validate:"omitempty,money"`
	NumberOfBatches  int        `json:"number_of_batches" validate:"gte=0,lte=50"`
	Batches          []BatchRow `json:"batches" validate:"-"`
	ContractID       string     `json:"contract_id" validate:"omitempty,uuid"`
	ContractAccepted bool       `json:"contract_accepted"`
}

// DefaultForm is the empty form shown when creating an event
func DefaultForm() *Form {
	return &Form{
		Time:            "19:00",
		NumberOfBatches: 1,
		Batches:         SyncBatches(nil, 1).Batches,
	}
}

// normalized returns a copy with surrounding whitespace removed
func (f *Form) normalized() *Form {
	n := *f
	for _, s := range []*string{
		&n.Title, &n.Description, &n.Date, &n.Time, &n.Location, &n.Address,
		&n.ImageURL1, &n.ImageURL2, &n.ImageURL3, &n.Category, &n.Capacity,
		&n.Duration, &n.TicketPrice, &n.ContractID,
	} {
		*s = strings.TrimSpace(*s)
	}
	n.Batches = make([]BatchRow, len(f.Batches))
	for i, b := range f.Batches {
		n.Batches[i] = BatchRow{
			Name:      strings.TrimSpace(b.Name),
			Quantity:  strings.TrimSpace(b.Quantity),
			Price:     strings.TrimSpace(b.Price),
			StartDate: strings.TrimSpace(b.StartDate),
			EndDate:   strings.TrimSpace(b.EndDate),
		}
	}
	return &n
}

// ToDraft converts a validated form into the persisted shape. Batches are
// returned only for paid events. The status is always pending. Conversion
// failures are returned as FieldErrors.
func (f *Form) ToDraft() (*domain.Event, []*domain.TicketBatch, error) {
	n := f.normalized()

	date, err := ParseDate(n.Date)
	if err != nil {
		return nil, nil, invalidField("date", err)
	}
	capacity, err := strconv.ParseInt(n.Capacity, 10, 32)
	if err != nil || capacity < 1 {
		return nil, nil, invalidField("capacity", err)
	}

	event := &domain.Event{
		Title:            n.Title,
		Description:      n.Description,
		Date:             date,
		Time:             n.Time,
		Location:         n.Location,
		Address:          n.Address,
		ImageURL1:        n.ImageURL1,
		ImageURL2:        n.ImageURL2,
		ImageURL3:        n.ImageURL3,
		MinAge:           n.MinAge,
		Category:         n.Category,
		Capacity:         int(capacity),
		Duration:         n.Duration,
		IsPaid:           n.IsPaid,
		ContractAccepted: n.ContractAccepted,
		Status:           domain.EventStatusPending,
	}
	if n.TicketPrice != "" {
		price, err := domain.ParseMoney(n.TicketPrice)
		if err != nil {
			return nil, nil, invalidField("ticket_price", err)
		}
		event.TicketPrice = &price
	}
	if n.ContractID != "" {
		id := n.ContractID
		event.ContractID = &id
	}

	if !n.IsPaid {
		return event, nil, nil
	}

	batches := make([]*domain.TicketBatch, 0, len(n.Batches))
	for i, row := range n.Batches {
		b, err := row.toBatch(i)
		if err != nil {
			return nil, nil, err
		}
		batches = append(batches, b)
	}
	return event, batches, nil
}

func (b BatchRow) toBatch(order int) (*domain.TicketBatch, error) {
	field := func(name string) string { return fmt.Sprintf("batches[%d].%s", order, name) }

	qty, err := domain.ParseQuantity(b.Quantity)
	if err != nil {
		return nil, invalidField(field("quantity"), err)
	}
	price, err := domain.ParseMoney(b.Price)
	if err != nil {
		return nil, invalidField(field("price"), err)
	}
	start, err := ParseDate(b.StartDate)
	if err != nil {
		return nil, invalidField(field("start_date"), err)
	}
	end, err := ParseDate(b.EndDate)
	if err != nil {
		return nil, invalidField(field("end_date"), err)
	}
	return &domain.TicketBatch{
		Name:      b.Name,
		Quantity:  qty,
		Price:     price,
		StartDate: start,
		EndDate:   end,
		SortOrder: order,
	}, nil
}

// FromEvent loads a persisted event into the wizard. Prices use the comma
// separator the form displays.
func FromEvent(e *domain.Event, batches []*domain.TicketBatch) *Form {
	f := &Form{
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.DateString(),
		Time:             e.Time,
		Location:         e.Location,
		Address:          e.Address,
		ImageURL1:        e.ImageURL1,
		ImageURL2:        e.ImageURL2,
		ImageURL3:        e.ImageURL3,
		MinAge:           e.MinAge,
		Category:         e.Category,
		Capacity:         strconv.Itoa(e.Capacity),
		Duration:         e.Duration,
		IsPaid:           e.IsPaid,
		ContractAccepted: e.ContractAccepted,
	}
	if e.TicketPrice != nil {
		f.TicketPrice = e.TicketPrice.Display()
	}
	if e.ContractID != nil {
		f.ContractID = *e.ContractID
	}

	f.Batches = make([]BatchRow, 0, len(batches))
	for _, b := range batches {
		f.Batches = append(f.Batches, BatchRow{
			Name:      b.Name,
			Quantity:  b.Quantity.String(),
			Price:     b.Price.Display(),
			StartDate: b.StartDate.Format(domain.DateLayout),
			EndDate:   b.EndDate.Format(domain.DateLayout),
		})
	}
	f.NumberOfBatches = len(f.Batches)
	if f.NumberOfBatches == 0 {
		f.NumberOfBatches = 1
		f.Batches = SyncBatches(nil, 1).Batches
	}
	return f
}
