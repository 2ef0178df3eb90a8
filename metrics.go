package perfolio

import (
	"fmt"

	"github.com/jmllr/perfolio/date"
)

// Mode selects the computation depth of the metrics engine.
type Mode int

const (
	// ModeFull tracks position, performance and return state per step.
	ModeFull Mode = iota
	// ModeChart is the lighter-weight sampling mode used for coarse charts:
	// it tracks quantity and value only and skips per-step return state.
	ModeChart
)

// PositionState is the derived state of one instrument on one grid day.
// All monetary fields are expressed in the reporting currency.
type PositionState struct {
	Date            date.Date `json:"date"`
	Quantity        Quantity  `json:"quantity"`
	AverageCost     Money     `json:"averageCostPerUnit"`
	InvestedCapital Money     `json:"investedCapital"`
	MarketValue     Money     `json:"marketValue"`
	// CashFlow is the signed net cash moved by the step's activities:
	// negative for buys and fees, positive for sells and income.
	CashFlow Money `json:"cashFlow"`
}

// SymbolMetrics is the per-instrument result of one computation call over a
// requested window. It is computed fresh on every call and never persisted;
// caching, if any, is the caller's concern.
type SymbolMetrics struct {
	Instrument string     `json:"instrument"`
	Currency   string     `json:"currency"`
	Window     date.Range `json:"window"`
	Step       int        `json:"step"`

	States []PositionState `json:"states,omitempty"`

	FirstBuyDate         date.Date `json:"firstBuyDate,omitzero"`
	TotalInvestedCapital Money     `json:"totalInvestedCapital"`
	GrossPerformance     Money     `json:"grossPerformance"`
	NetPerformance       Money     `json:"netPerformance"`
	RealizedGain         Money     `json:"realizedGain"`
	DividendIncome       Money     `json:"dividendIncome"`
	FeesPaid             Money     `json:"feesPaid"`
	TimeWeightedReturn   Percent   `json:"timeWeightedReturn"`
	MoneyWeightedReturn  Percent   `json:"moneyWeightedReturn,omitempty"`

	// Warnings lists degraded lookups (missing market data) that were
	// absorbed as zero contributions instead of aborting the computation.
	Warnings []string `json:"warnings,omitempty"`
}

// seriesPoint is one grid day of the simulation, kept internal so return
// algorithms can see what the public PositionState hides: whether the
// market value for the day is trustworthy.
type seriesPoint struct {
	on      date.Date
	value   Money // end-of-day market value, reporting currency
	flow    Money // wallet-signed net activity cash of the step
	priceOK bool  // false when the day's price lookup degraded to zero
}

// simulation is the full day-by-day walk of one instrument, shared by both
// return algorithms. Only the return formula differs between them.
type simulation struct {
	metrics *SymbolMetrics
	points  []seriesPoint
	// openingValue is the position's market value the day before the first
	// grid day, the basis of the first return sub-period.
	openingValue Money
}

// simulate produces the day-by-day position states for one instrument over
// the input window, stepped by in.Step days.
//
// Activities dated before the window are replayed first to establish the
// opening position. Missing prices or rates degrade to zero contributions
// and a warning; they never abort the walk.
func simulate(in *Input, instrument string) (*simulation, error) {
	acts := in.Ledger.ForInstrument(instrument)
	if len(acts) == 0 {
		return nil, fmt.Errorf("%w: no activities for instrument %q", ErrInvalidActivity, instrument)
	}
	window := in.Window
	if !window.IsValid() {
		return nil, fmt.Errorf("%w: window %s is not a valid range", ErrInvalidActivity, window)
	}

	rc := in.ReportingCurrency
	m := &SymbolMetrics{
		Instrument:           instrument,
		Currency:             rc,
		Window:               window,
		Step:                 in.Step,
		TotalInvestedCapital: M(0, rc),
		GrossPerformance:     M(0, rc),
		NetPerformance:       M(0, rc),
		RealizedGain:         M(0, rc),
		DividendIncome:       M(0, rc),
		FeesPaid:             M(0, rc),
	}
	if first, ok := in.Ledger.FirstBuyDate(instrument); ok {
		m.FirstBuyDate = first
	}
	sim := &simulation{metrics: m, openingValue: M(0, rc)}

	w := &walker{in: in, metrics: m, quantity: Q(0),
		invested: M(0, rc), realized: M(0, rc), income: M(0, rc), fees: M(0, rc)}

	// Replay pre-window activities to establish the opening position.
	cursor := 0
	for cursor < len(acts) && acts[cursor].Date.Before(window.From) {
		if err := w.apply(acts[cursor]); err != nil {
			return nil, err
		}
		cursor++
	}
	opening, ok := w.marketValue(window.From.Add(-1))
	if ok {
		sim.openingValue = opening
	}

	for day := range window.Grid(in.Step) {
		flow := M(0, rc)
		for cursor < len(acts) && !acts[cursor].Date.After(day) {
			a := acts[cursor]
			if err := w.apply(a); err != nil {
				return nil, err
			}
			flow = flow.Add(w.convert(a.CashFlow(), a.Date))
			cursor++
		}

		value, priceOK := w.marketValue(day)
		state := PositionState{
			Date:            day,
			Quantity:        w.quantity,
			InvestedCapital: w.invested,
			MarketValue:     value,
			CashFlow:        flow,
			AverageCost:     M(0, rc),
		}
		if in.Mode == ModeFull && w.quantity.IsPositive() {
			avg, err := w.invested.Div(w.quantity)
			if err != nil {
				return nil, err
			}
			state.AverageCost = avg
		}
		m.States = append(m.States, state)
		sim.points = append(sim.points, seriesPoint{on: day, value: value, flow: flow, priceOK: priceOK})
	}

	last := m.States[len(m.States)-1]
	m.TotalInvestedCapital = w.invested
	m.RealizedGain = w.realized
	m.DividendIncome = w.income
	m.FeesPaid = w.fees
	// Gross performance ignores fee drag; net carries it.
	m.NetPerformance = last.MarketValue.Sub(w.invested).Add(w.realized).Add(w.income)
	m.GrossPerformance = m.NetPerformance.Add(w.fees)

	if in.Mode == ModeFull {
		m.TimeWeightedReturn = chainedReturn(sim.openingValue, sim.points)
	}
	return sim, nil
}

// walker holds the running accumulators of one instrument's simulation.
// All monetary accumulators are in the reporting currency.
type walker struct {
	in      *Input
	metrics *SymbolMetrics

	quantity Quantity
	invested Money
	realized Money
	income   Money
	fees     Money
}

// convert expresses the amount in the reporting currency at the rate valid
// on the given day. A missing rate degrades to zero with a warning.
func (w *walker) convert(m Money, on date.Date) Money {
	converted, err := w.in.Market.Convert(m, w.in.ReportingCurrency, on)
	if err != nil {
		w.warn(fmt.Sprintf("%s: %v, treating %s as zero", w.metrics.Instrument, err, m))
		return M(0, w.in.ReportingCurrency)
	}
	return converted
}

// marketValue returns quantity * price(day) in the reporting currency.
// The second result is false when the lookup degraded to zero.
func (w *walker) marketValue(on date.Date) (Money, bool) {
	if w.quantity.IsZero() {
		return M(0, w.in.ReportingCurrency), true
	}
	price, err := w.in.Market.PriceAsOf(w.metrics.Instrument, on)
	if err != nil {
		w.warn(fmt.Sprintf("%s: %v, value counted as zero on %s", w.metrics.Instrument, err, on))
		return M(0, w.in.ReportingCurrency), false
	}
	converted, err := w.in.Market.Convert(price.Mul(w.quantity), w.in.ReportingCurrency, on)
	if err != nil {
		w.warn(fmt.Sprintf("%s: %v, value counted as zero on %s", w.metrics.Instrument, err, on))
		return M(0, w.in.ReportingCurrency), false
	}
	return converted, true
}

func (w *walker) warn(msg string) {
	// One warning per instrument and cause is enough for the caller's log.
	for _, existing := range w.metrics.Warnings {
		if existing == msg {
			return
		}
	}
	w.metrics.Warnings = append(w.metrics.Warnings, msg)
	w.in.Logger.Warn().Str("instrument", w.metrics.Instrument).Msg(msg)
}

// apply folds one activity into the running state.
func (w *walker) apply(a Activity) error {
	switch a.Type {
	case Buy:
		// Invested capital includes the buy fee, converted at the rate
		// valid on the activity date.
		w.invested = w.invested.Add(w.convert(a.TotalCost(), a.Date))
		w.fees = w.fees.Add(w.convert(a.Fee, a.Date))
		w.quantity = w.quantity.Add(a.Quantity)
	case Sell:
		if a.Quantity.GreaterThan(w.quantity) {
			return fmt.Errorf("%w: %s on %s sells %s with only %s held",
				ErrOverdraft, a.Instrument, a.Date, a.Quantity, w.quantity)
		}
		// Average-cost method: the sold lot carries the blended average
		// purchase price, so a partial sell preserves the average cost of
		// the remainder.
		avg, err := w.invested.Div(w.quantity)
		if err != nil {
			return err
		}
		costOfSold := avg.Mul(a.Quantity)
		w.invested = w.invested.Sub(costOfSold)
		w.realized = w.realized.Add(w.convert(a.GrossAmount(), a.Date).Sub(costOfSold))
		w.fees = w.fees.Add(w.convert(a.Fee, a.Date))
		w.quantity = w.quantity.Sub(a.Quantity)
	case Dividend, Interest:
		w.income = w.income.Add(w.convert(a.GrossAmount(), a.Date))
		w.fees = w.fees.Add(w.convert(a.Fee, a.Date))
	case Fee:
		w.fees = w.fees.Add(w.convert(a.TotalCost(), a.Date))
	case Item:
		// Manual, non-market holding: cash flow only, no quantity and no
		// cost basis.
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidActivity, a.Type)
	}
	return nil
}
