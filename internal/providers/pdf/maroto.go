package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type marotoRenderer struct{}

// NewStatementRenderer builds the maroto-backed PDF renderer.
func NewStatementRenderer() StatementRenderer {
	return &marotoRenderer{}
}

func (r *marotoRenderer) RenderStatement(data StatementData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Payout Statement", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(6, "Batch "+data.BatchID, props.Text{Size: 9}),
		text.NewCol(6, data.SettledAt.Format("2006-01-02 15:04 MST"), props.Text{Size: 9, Align: align.Right}),
	)
	if data.StaffID != "" {
		m.AddRow(6, text.NewCol(12, "Staff "+data.StaffID, props.Text{Size: 9}))
	}
	m.AddRow(6, text.NewCol(12, "Settled by "+data.CreatedBy, props.Text{Size: 9}))
	if data.Notes != "" {
		m.AddRow(6, text.NewCol(12, "Notes: "+data.Notes, props.Text{Size: 9}))
	}
	m.AddRow(4, line.NewCol(12))

	m.AddRow(7,
		text.NewCol(4, "Booking", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Method", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Staff keeps", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Company", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, l := range data.Lines {
		m.AddRow(6,
			text.NewCol(4, l.BookingID, props.Text{Size: 8}),
			text.NewCol(2, l.PaymentMethod, props.Text{Size: 8}),
			text.NewCol(2, formatAmount(l.TotalPrice, data.Currency), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, formatAmount(l.StaffKeeps, data.Currency), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, formatAmount(l.CompanyShare, data.Currency), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		col.New(8).Add(text.New("Net settled", props.Text{Size: 10, Style: fontstyle.Bold})),
		col.New(4).Add(text.New(formatAmount(data.NetAmount, data.Currency), props.Text{
			Size:  10,
			Style: fontstyle.Bold,
			Align: align.Right,
		})),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func formatAmount(v int64, currency string) string {
	if currency == "" {
		currency = "THB"
	}
	return fmt.Sprintf("%d %s", v, currency)
}
