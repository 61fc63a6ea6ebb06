package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevMonth   key.Binding
	NextMonth   key.Binding
	PrevYear    key.Binding
	NextYear    key.Binding
	Today       key.Binding
	Up          key.Binding
	Down        key.Binding
	PrevDay     key.Binding
	NextDay     key.Binding
	FirstDay    key.Binding
	Grow        key.Binding
	Shrink      key.Binding
	MoreSpacing key.Binding
	LessSpacing key.Binding
	Evaluator   key.Binding
	Settings    key.Binding
	Goto        key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		PrevYear: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev year"),
		),
		NextYear: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next year"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "week before"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "week after"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next day"),
		),
		FirstDay: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "first weekday"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "bigger tiles"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "smaller tiles"),
		),
		MoreSpacing: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "more spacing"),
		),
		LessSpacing: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "less spacing"),
		),
		Evaluator: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "color scale"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Goto: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to month"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export png"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Evaluator, k.Goto, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMonth, k.NextMonth, k.PrevYear, k.NextYear, k.Today},
		{k.Up, k.Down, k.PrevDay, k.NextDay},
		{k.FirstDay, k.Grow, k.Shrink, k.MoreSpacing, k.LessSpacing},
		{k.Evaluator, k.Settings, k.Goto, k.Export, k.Quit},
	}
}
