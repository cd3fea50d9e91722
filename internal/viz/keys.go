package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextX   key.Binding
	PrevX   key.Binding
	NextY   key.Binding
	PrevY   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Left    key.Binding
	Right   key.Binding
	Reset   key.Binding
	Low     key.Binding
	Medium  key.Binding
	High    key.Binding
	Rate    key.Binding
	Theme   key.Binding
	Delete  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextX, k.NextY, k.ZoomIn, k.ZoomOut, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextX, k.PrevX, k.NextY, k.PrevY},
		{k.ZoomIn, k.ZoomOut, k.Left, k.Right, k.Reset},
		{k.Low, k.Medium, k.High, k.Rate},
		{k.Theme, k.Delete, k.Help, k.Quit},
	}
}

var keys = keyMap{
	NextX:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "next X axis")),
	PrevX:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "prev X axis")),
	NextY:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "next Y axis")),
	PrevY:   key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "prev Y axis")),
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
	Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset zoom")),
	Low:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "low quality")),
	Medium:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "medium quality")),
	High:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "high quality")),
	Rate:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "cycle update rate")),
	Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete all")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
