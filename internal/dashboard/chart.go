package dashboard

import "ardash/pkg/models"

const (
	chartTypeBar     = "bar"
	chartSeriesLabel = "Outstanding"
)

// NewChartData turns the ranked top-N list into a single bar series, keeping rank order.
func NewChartData(debtors []models.TopDebtor) ChartData {
	labels := make([]string, len(debtors))
	values := make([]float64, len(debtors))
	for i, d := range debtors {
		labels[i] = d.Name
		values[i] = d.TotalOutstanding.InexactFloat64()
	}
	return ChartData{
		Type:       chartTypeBar,
		Labels:     labels,
		Series:     []Series{{Label: chartSeriesLabel, Values: values}},
		ShowLegend: true,
	}
}

// ChartView owns at most one chart instance and replaces it wholesale.
type ChartView struct {
	factory ChartFactory
	current Chart
}

// NewChartView creates a ChartView that builds instances with factory.
func NewChartView(factory ChartFactory) *ChartView {
	return &ChartView{factory: factory}
}

// Render destroys the previous instance, then builds a new one from debtors.
func (v *ChartView) Render(debtors []models.TopDebtor) error {
	v.Close()

	chart, err := v.factory.NewChart(NewChartData(debtors))
	if err != nil {
		return err
	}
	v.current = chart
	return nil
}

// Current returns the live instance, or nil.
func (v *ChartView) Current() Chart {
	return v.current
}

// Close destroys the live instance, if any.
func (v *ChartView) Close() {
	if v.current != nil {
		v.current.Destroy()
		v.current = nil
	}
}
