package render

import (
	"encoding/json"
	"io"

	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/model"
)

const isoDate = "2006-01-02"

// Document is the JSON form of a report. Amounts are decimal strings with
// two places.
type Document struct {
	Start           string        `json:"start"`
	End             string        `json:"end"`
	Config          ConfigDoc     `json:"config"`
	Opening         OpeningDoc    `json:"opening"`
	TotalInflows    string        `json:"total_inflows"`
	TotalOutflows   string        `json:"total_outflows"`
	SignedOutflows  string        `json:"signed_outflows"`
	Closing         string        `json:"closing"`
	CashGenerated   string        `json:"cash_generated"`
	RecordedClosing *SnapshotDoc  `json:"recorded_closing,omitempty"`
	Difference      *string       `json:"difference,omitempty"`
	Inflows         []NodeDoc     `json:"inflows"`
	Outflows        []NodeDoc     `json:"outflows"`
	Movements       []MovementDoc `json:"movements,omitempty"`
}

// ConfigDoc is the JSON form of dfc.Config.
type ConfigDoc struct {
	Formula              string `json:"formula"`
	UseRecordedOpening   bool   `json:"use_recorded_opening"`
	UseComputedOpening   bool   `json:"use_computed_opening"`
	ReconciledOnly       bool   `json:"reconciled_only"`
	ForceOutflowNegative bool   `json:"force_outflow_negative"`
}

// OpeningDoc is the JSON form of dfc.Opening.
type OpeningDoc struct {
	Balance      string       `json:"balance"`
	Recorded     *SnapshotDoc `json:"recorded,omitempty"`
	Computed     string       `json:"computed"`
	UsedComputed bool         `json:"used_computed"`
}

// SnapshotDoc is the JSON form of a balance snapshot.
type SnapshotDoc struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// NodeDoc is one account of the rolled-up tree.
type NodeDoc struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Total       string    `json:"total"`
	Children    []NodeDoc `json:"children,omitempty"`
}

// MovementDoc is one admitted entry of the period.
type MovementDoc struct {
	EntryID     string `json:"entry_id"`
	PaymentDate string `json:"payment_date"`
	AccountCode string `json:"account_code"`
	Description string `json:"description"`
	Nature      string `json:"nature"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
}

// NewDocument converts a report. Movements are included when details is set.
func NewDocument(rep *dfc.Report, details bool) Document {
	doc := Document{
		Start:  rep.Period.Start.Format(isoDate),
		End:    rep.Period.End.Format(isoDate),
		Config: NewConfigDoc(rep.Config),
		Opening: OpeningDoc{
			Balance:      rep.Opening.Balance.StringFixed(2),
			Recorded:     snapshotDoc(rep.Opening.Recorded),
			Computed:     rep.Opening.Computed.StringFixed(2),
			UsedComputed: rep.Opening.UsedComputed,
		},
		TotalInflows:    rep.TotalInflows.StringFixed(2),
		TotalOutflows:   rep.TotalOutflows.StringFixed(2),
		SignedOutflows:  rep.SignedOutflows.StringFixed(2),
		Closing:         rep.Closing.StringFixed(2),
		CashGenerated:   rep.CashGenerated.StringFixed(2),
		RecordedClosing: snapshotDoc(rep.RecordedClosing),
		Inflows:         nodeDocs(rep.Inflows),
		Outflows:        nodeDocs(rep.Outflows),
	}
	if diff, ok := rep.Difference(); ok {
		s := diff.StringFixed(2)
		doc.Difference = &s
	}
	if details {
		doc.Movements = MovementDocs(rep.Movements)
	}
	return doc
}

// NewConfigDoc converts an engine config.
func NewConfigDoc(cfg dfc.Config) ConfigDoc {
	return ConfigDoc{
		Formula:              string(cfg.Formula),
		UseRecordedOpening:   cfg.UseRecordedOpening,
		UseComputedOpening:   cfg.UseComputedOpening,
		ReconciledOnly:       cfg.ReconciledOnly,
		ForceOutflowNegative: cfg.ForceOutflowNegative,
	}
}

// NewSnapshotDoc converts a balance snapshot.
func NewSnapshotDoc(s model.BalanceSnapshot) SnapshotDoc {
	return SnapshotDoc{
		ID:     s.ID,
		Date:   s.Date.Format(isoDate),
		Type:   string(s.Type),
		Amount: s.Amount.StringFixed(2),
		Note:   s.Note,
	}
}

// MovementDocs converts movements for JSON output.
func MovementDocs(movs []dfc.Movement) []MovementDoc {
	out := make([]MovementDoc, 0, len(movs))
	for _, m := range movs {
		out = append(out, MovementDoc{
			EntryID:     m.Entry.ID,
			PaymentDate: m.Entry.PaymentDate.Format(isoDate),
			AccountCode: m.AccountCode,
			Description: m.Description,
			Nature:      string(m.Nature),
			Status:      string(m.Entry.Status),
			Amount:      m.Entry.Amount.StringFixed(2),
		})
	}
	return out
}

// JSON writes the report document, indented.
func JSON(w io.Writer, rep *dfc.Report, details bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(rep, details))
}

func snapshotDoc(s *model.BalanceSnapshot) *SnapshotDoc {
	if s == nil {
		return nil
	}
	doc := NewSnapshotDoc(*s)
	return &doc
}

func nodeDocs(nodes []dfc.Node) []NodeDoc {
	out := make([]NodeDoc, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeDoc{
			Code:        n.Code,
			Description: n.Description,
			Total:       n.Total.StringFixed(2),
			Children:    nodeDocs(n.Children),
		})
	}
	return out
}
