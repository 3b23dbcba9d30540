package wizard

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() *Form {
	return &Form{
		Title:           "Festival de Verão",
		Description:     "Three days of music by the sea.",
		Date:            "2025-12-20",
		Time:            "18:30",
		Location:        "Praia Central",
		Address:         "Av. Atlântica, 100",
		ImageURL1:       "https://cdn.example.com/1.jpg",
		ImageURL2:       "https://cdn.example.com/2.jpg",
		ImageURL3:       "https://cdn.example.com/3.jpg",
		MinAge:          16,
		Category:        "music",
		Capacity:        "5000",
		Duration:        "3 days",
		NumberOfBatches: 1,
		Batches:         []BatchRow{filledRow("Lote 1")},
	}
}

func fields(errs FieldErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidate_ValidForm(t *testing.T) {
	assert.Empty(t, Validate(validForm()))

	paid := validForm()
	paid.IsPaid = true
	paid.TicketPrice = "120,50"
	assert.Empty(t, Validate(paid))
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *Form)
		wantField string
		wantStep  Step
	}{
		{"short title", func(f *Form) { f.Title = "ab" }, "title", StepDetails},
		{"long title", func(f *Form) { f.Title = strings.Repeat("a", 101) }, "title", StepDetails},
		{"blank title", func(f *Form) { f.Title = "   " }, "title", StepDetails},
		{"short description", func(f *Form) { f.Description = "too short" }, "description", StepDetails},
		{"missing date", func(f *Form) { f.Date = "" }, "date", StepDetails},
		{"bad date", func(f *Form) { f.Date = "20/12/2025" }, "date", StepDetails},
		{"bad time", func(f *Form) { f.Time = "24:00" }, "time", StepDetails},
		{"time without colon", func(f *Form) { f.Time = "1830" }, "time", StepDetails},
		{"image not url", func(f *Form) { f.ImageURL2 = "not a url" }, "image_url_2", StepMedia},
		{"image missing", func(f *Form) { f.ImageURL3 = "" }, "image_url_3", StepMedia},
		{"age over 18", func(f *Form) { f.MinAge = 19 }, "min_age", StepDetails},
		{"negative age", func(f *Form) { f.MinAge = -1 }, "min_age", StepDetails},
		{"zero capacity", func(f *Form) { f.Capacity = "0" }, "capacity", StepDetails},
		{"decimal capacity", func(f *Form) { f.Capacity = "10.5" }, "capacity", StepDetails},
		{"capacity past int32", func(f *Form) { f.Capacity = "2147483648" }, "capacity", StepDetails},
		{"huge capacity", func(f *Form) { f.Capacity = "99999999999999999999" }, "capacity", StepDetails},
		{"too many batches", func(f *Form) { f.NumberOfBatches = MaxBatches + 1 }, "number_of_batches", StepPricing},
		{"empty duration", func(f *Form) { f.Duration = "" }, "duration", StepDetails},
		{"bad price", func(f *Form) { f.TicketPrice = "10,555" }, "ticket_price", StepPricing},
		{"missing category", func(f *Form) { f.Category = "" }, "category", StepDetails},
		{"bad contract id", func(f *Form) { f.ContractID = "abc" }, "contract_id", StepContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(f)

			errs := Validate(f)
			require.Len(t, errs, 1, "fields: %v", fields(errs))
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantStep, errs[0].Step)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidate_TimeBoundaries(t *testing.T) {
	for _, tm := range []string{"00:00", "09:05", "23:59"} {
		f := validForm()
		f.Time = tm
		assert.Empty(t, Validate(f), tm)
	}
}

func TestValidate_MoneyPattern(t *testing.T) {
	valid := []string{"0", "10", "10,5", "10.50", "999999,99", "9999999999,99"}
	invalid := []string{"10,", ",50", "1.000,00", "abc", "-1", "99999999999"}

	for _, p := range valid {
		f := validForm()
		f.TicketPrice = p
		assert.Empty(t, Validate(f), p)
	}
	for _, p := range invalid {
		f := validForm()
		f.TicketPrice = p
		assert.Len(t, Validate(f), 1, p)
	}
}

func TestValidate_BatchesOnlyCheckedWhenPaid(t *testing.T) {
	f := validForm()
	f.Batches = []BatchRow{{Name: "Lote 1", Quantity: "zero", Price: "x"}}

	assert.Empty(t, Validate(f), "free events ignore batch rows")

	f.IsPaid = true
	errs := Validate(f)
	assert.ElementsMatch(t, []string{"batches[0].quantity", "batches[0].price"}, fields(errs))
	for _, e := range errs {
		assert.Equal(t, StepPricing, e.Step)
	}
}

func TestValidate_BatchCountNotComparedWithRows(t *testing.T) {
	f := validForm()
	f.IsPaid = true
	f.NumberOfBatches = 4

	assert.Empty(t, Validate(f))
}

func TestValidate_CapacityUpperBound(t *testing.T) {
	f := validForm()
	f.Capacity = "2147483647"
	assert.Empty(t, Validate(f))
}

func TestValidate_BatchQuantityOverflow(t *testing.T) {
	f := validForm()
	f.IsPaid = true
	f.Batches[0].Quantity = "99999999999999999999"

	errs := Validate(f)
	require.Len(t, errs, 1)
	assert.Equal(t, "batches[0].quantity", errs[0].Field)
	assert.Equal(t, StepPricing, errs[0].Step)
}

func TestValidate_TooManyBatchRows(t *testing.T) {
	f := validForm()
	f.IsPaid = true
	f.Batches = make([]BatchRow, MaxBatches+1)

	errs := Validate(f)
	require.Len(t, errs, 1, "rows past the cap are not checked one by one")
	assert.Equal(t, "batches", errs[0].Field)
	assert.Equal(t, StepPricing, errs[0].Step)
}

func TestValidate_OrderedAndFirst(t *testing.T) {
	f := validForm()
	f.Title = ""
	f.ImageURL1 = ""

	errs := Validate(f)
	require.Len(t, errs, 2)
	assert.Equal(t, "title", errs.First().Field)
	assert.Equal(t, "image_url_1", errs[1].Field)
	assert.Contains(t, errs.Error(), "and 1 more")
}

func TestFieldErrors_AsError(t *testing.T) {
	var empty FieldErrors
	assert.NoError(t, empty.Err())

	errs := FieldErrors{{Field: "title", Message: "title is required", Step: StepDetails}}
	wrapped := fmt.Errorf("save: %w", errs.Err())

	got, ok := AsFieldErrors(wrapped)
	require.True(t, ok)
	assert.Equal(t, "title", got.First().Field)

	_, ok = AsFieldErrors(errors.New("other"))
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10T22:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d.Format("2006-01-02"))

	d, err = ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}
