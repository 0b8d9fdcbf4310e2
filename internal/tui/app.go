package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/sadopc/habitiviz/internal/graph"
	"github.com/sadopc/habitiviz/internal/history"
)

const redrawInterval = time.Second

// Options configures the App.
type Options struct {
	Source       history.Source
	Aggregator   *history.Aggregator
	Graph        graph.Config
	CanvasWidth  int
	CanvasHeight int
	Logger       *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	opts   Options
	logger *zap.Logger
	width  int
	height int

	source history.Source
	graph  *graph.Graph
	stats  graph.Stats
	canvas *canvas
	chart  barchart.Model

	loading  bool
	showHelp bool
	help     help.Model
	status   string
	isError  bool

	formActive bool
	form       *huh.Form
	formPath   *string // survives value copies
}

func NewApp(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Aggregator == nil {
		opts.Aggregator = history.NewAggregator(nil, logger)
	}

	h := help.New()
	h.ShowAll = false

	g := graph.New(opts.Graph)
	c := newCanvas(opts.Graph.CellSpacing)
	g.Setup(c, opts.CanvasWidth, opts.CanvasHeight)

	path := ""
	return App{
		opts:     opts,
		logger:   logger,
		source:   opts.Source,
		graph:    g,
		canvas:   c,
		chart:    barchart.New(40, 8),
		loading:  true,
		help:     h,
		formPath: &path,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadGraph(a.source),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(redrawInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadGraph runs fetch, aggregation and layout off the UI loop and hands a
// brand new graph back in a message.
func (a App) loadGraph(src history.Source) tea.Cmd {
	cfg := a.opts.Graph
	agg := a.opts.Aggregator
	logger := a.logger
	return func() tea.Msg {
		g := graph.New(cfg)
		if src == nil {
			return graphLoadedMsg{graph: g, err: fmt.Errorf("%w: no source configured", history.ErrSourceUnavailable)}
		}
		err := g.Load(context.Background(), src, agg)
		if err != nil {
			logger.Warn("history load failed", zap.Stringer("source", src), zap.Error(err))
		} else {
			logger.Info("history loaded",
				zap.Stringer("source", src),
				zap.Int("days", len(g.Days())),
				zap.Int("cells", len(g.Cells())))
		}
		return graphLoadedMsg{graph: g, source: src, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.formActive && a.form != nil {
		switch msg.(type) {
		case graphLoadedMsg, statusMsg:
			// Results of work started before the form opened still apply.
		default:
			return a.updateForm(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.buildChart()
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Reload):
			a.loading = true
			a.status = "Reloading..."
			a.isError = false
			return a, a.loadGraph(a.source)
		case key.Matches(msg, keys.Open):
			return a.showForm()
		}

	case tickMsg:
		a.redraw()
		return a, tickCmd()

	case graphLoadedMsg:
		a.loading = false
		a.graph = msg.graph
		a.stats = a.graph.Stats()
		if msg.source != nil {
			a.source = msg.source
		}
		a.redraw()
		a.buildChart()
		if msg.err != nil {
			a.status = fmt.Sprintf("Error: %v", msg.err)
			a.isError = true
		} else {
			a.status = fmt.Sprintf("Loaded %s", humanize.Comma(int64(a.stats.TotalTasks))+" tasks")
			a.isError = false
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, nil
	}
	return a, nil
}

// redraw repaints the canvas from the current graph.
func (a *App) redraw() {
	a.canvas.clear()
	a.graph.Render(a.canvas)
}

func (a App) showForm() (tea.Model, tea.Cmd) {
	*a.formPath = ""
	if fs, ok := a.source.(history.FileSource); ok {
		*a.formPath = fs.Path
	}
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("History export").
				Description("Path to a Habitica tasks history CSV").
				Value(a.formPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	a.formActive = true
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Back) {
			a.formActive = false
			a.form = nil
			return a, func() tea.Msg { return statusMsg{text: "Open cancelled"} }
		}
	}
	// Keep the heatmap redrawing underneath the form.
	if _, ok := msg.(tickMsg); ok {
		a.redraw()
		return a, tickCmd()
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		a.form = nil
		a.loading = true
		src := history.FileSource{Path: strings.TrimSpace(*a.formPath), Logger: a.logger}
		return a, a.loadGraph(src)
	}
	return a, cmd
}

func (a *App) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	a.chart = barchart.New(chartWidth, 8)

	var bars []barchart.BarData
	for _, w := range a.stats.Weeks {
		bars = append(bars, barchart.BarData{
			Label: w.Start.Format("01/02"),
			Values: []barchart.BarValue{{
				Name:  "tasks",
				Value: float64(w.Tasks),
				Style: lipgloss.NewStyle().Foreground(colorHighlight),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	if a.formActive && a.form != nil {
		content = activePanelStyle.Width(a.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Open history"), "", a.form.View()),
		)
	} else {
		content = lipgloss.JoinVertical(lipgloss.Left,
			a.renderHeatmap(),
			a.renderChart(),
			a.renderSummary(),
		)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("habitiviz")
	src := "no source"
	if a.source != nil {
		src = a.source.String()
	}
	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", mutedStyle.Render(src)),
	)
}

func (a App) renderHeatmap() string {
	title := titleStyle.Render("Activity")
	if a.loading {
		title += mutedStyle.Render("  loading...")
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", a.canvas.view()))
}

func (a App) renderChart() string {
	title := titleStyle.Render("Tasks per week")
	if len(a.stats.Weeks) == 0 {
		return panelStyle.Width(a.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Not enough history to draw a week")),
		)
	}
	return panelStyle.Width(a.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", a.chart.View()),
	)
}

func (a App) renderSummary() string {
	st := a.stats
	if st.Days == 0 {
		return panelStyle.Width(a.width - 4).Render(mutedStyle.Render("No history yet"))
	}

	lastActive := formatDay(st.LastActive) + mutedStyle.Render(" ("+humanize.Time(st.LastActive)+")")
	rows := []string{
		titleStyle.Render("Summary"),
		fmt.Sprintf("  %-14s %s", "Tasks", highlightStyle.Render(humanize.Comma(int64(st.TotalTasks)))),
		fmt.Sprintf("  %-14s %s", "Active days", highlightStyle.Render(humanize.Comma(int64(st.Days)))),
		fmt.Sprintf("  %-14s %s", "Shown", mutedStyle.Render(fmt.Sprintf("%d days, %d tasks", st.DrawnDays, st.DrawnTasks))),
		fmt.Sprintf("  %-14s %s", "Last active", lastActive),
	}
	if st.BusiestCount > 0 {
		rows = append(rows, fmt.Sprintf("  %-14s %s (%s)", "Busiest day",
			formatDay(st.BusiestDay), humanize.Comma(int64(st.BusiestCount))+" tasks"))
	}
	return panelStyle.Width(a.width - 4).Render(strings.Join(rows, "\n"))
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = successStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
