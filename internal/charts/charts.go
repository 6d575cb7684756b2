package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ivanoskov/awards_bot/internal/service"
)

const maxLabelRunes = 18

// ChartGenerator рисует диаграммы итогов голосования
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// GenerateNominationChart рисует столбчатую диаграмму голосов по участникам
// номинации. Для номинации без участников возвращает nil.
func (g *ChartGenerator) GenerateNominationChart(nomination service.NominationResult) ([]byte, error) {
	if len(nomination.Participants) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(nomination.Participants))
	maxVotes := 1.0
	for _, p := range nomination.Participants {
		votes := float64(p.Votes)
		if votes > maxVotes {
			maxVotes = votes
		}
		bars = append(bars, chart.Value{
			Label: truncate(p.Name),
			Value: votes,
		})
	}

	graph := chart.BarChart{
		Title:    nomination.Name,
		Width:    max(600, 140*len(bars)+160),
		Height:   500,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    60,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			// диапазон оси не может быть нулевым, даже если голосов нет
			Range: &chart.ContinuousRange{Min: 0, Max: maxVotes},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render nomination chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateDistributionPie рисует распределение голосов между номинациями.
// Если голосов нет, возвращает nil.
func (g *ChartGenerator) GenerateDistributionPie(report *service.Report) ([]byte, error) {
	if report == nil {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(report.Nominations))
	var total int64
	for _, n := range report.Nominations {
		total += n.Votes
	}
	if total == 0 {
		return nil, nil
	}

	for _, n := range report.Nominations {
		if n.Votes == 0 {
			continue
		}
		percentage := float64(n.Votes) / float64(total) * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %d (%.1f%%)", truncate(n.Name), n.Votes, percentage),
			Value: float64(n.Votes),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Title:  "Распределение голосов",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render distribution pie: %w", err)
	}
	return buffer.Bytes(), nil
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelRunes {
		return s
	}
	return string(runes[:maxLabelRunes-1]) + "…"
}
