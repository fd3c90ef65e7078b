package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/vipul43/sky-pledge/internal/warehouse"
)

// Gift staging table columns
const (
	ColumnGiftID             = "GIFT_ID"
	ColumnAssociatedPledgeID = "ASSOCIATED_PLEDGE_ID"
	ColumnGiftAmount         = "GIFT_AMOUNT"
	ColumnGiftDate           = "GIFT_DATE"
	ColumnGiftSystemID       = "GIFT_SYSTEM_ID"
	ColumnGiftType           = "GIFT_TYPE"
)

const giftDateLayout = "2006-01-02"

var (
	ErrInvalidGiftDate = errors.New("invalid gift date")
	ErrNoLinkedGift    = errors.New("gift has no linked gifts")
)

// Gift is the subset of the SKY gift resource the loader reads.
type Gift struct {
	ID          string   `json:"id"`
	LookupID    string   `json:"lookup_id"`
	LinkedGifts []string `json:"linked_gifts"`
	Amount      Amount   `json:"amount"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
}

type Amount struct {
	Value float64 `json:"value"`
}

// GiftRecord is one row of the gift staging table.
type GiftRecord struct {
	GiftID             string
	AssociatedPledgeID string
	GiftAmount         float64
	GiftDate           time.Time
	GiftSystemID       string
	GiftType           string
}

// Record maps the API payload onto the staging row. The first linked gift is
// taken as the associated pledge.
func (g Gift) Record() (GiftRecord, error) {
	if len(g.LinkedGifts) == 0 {
		return GiftRecord{}, fmt.Errorf("%w: %s", ErrNoLinkedGift, g.ID)
	}

	date, err := ParseGiftDate(g.Date)
	if err != nil {
		return GiftRecord{}, err
	}

	return GiftRecord{
		GiftID:             g.LookupID,
		AssociatedPledgeID: g.LinkedGifts[0],
		GiftAmount:         g.Amount.Value,
		GiftDate:           date,
		GiftSystemID:       g.ID,
		GiftType:           g.Type,
	}, nil
}

// Row returns the staging row keyed by column name.
func (r GiftRecord) Row() warehouse.Row {
	return warehouse.Row{
		ColumnGiftID:             r.GiftID,
		ColumnAssociatedPledgeID: r.AssociatedPledgeID,
		ColumnGiftAmount:         r.GiftAmount,
		ColumnGiftDate:           r.GiftDate,
		ColumnGiftSystemID:       r.GiftSystemID,
		ColumnGiftType:           r.GiftType,
	}
}

// ParseGiftDate reads the YYYY-MM-DD prefix of an ISO-8601 timestamp.
func ParseGiftDate(s string) (time.Time, error) {
	if len(s) < len(giftDateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidGiftDate, s, len(giftDateLayout))
	}

	t, err := time.Parse(giftDateLayout, s[:len(giftDateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidGiftDate, err)
	}
	return t, nil
}
