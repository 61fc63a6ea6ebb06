package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for calendars
var calendarColors = []lipgloss.Color{
	lipgloss.Color("205"), // Pink
	lipgloss.Color("117"), // Light Blue
	lipgloss.Color("229"), // Yellow
	lipgloss.Color("120"), // Green
	lipgloss.Color("183"), // Purple
	lipgloss.Color("216"), // Peach
	lipgloss.Color("86"),  // Cyan
	lipgloss.Color("211"), // Light Pink
}

// gridLeft is the number of blank columns left of the heatmap grid.
const gridLeft = 2

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)

	dateHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("117")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	gridStyle = lipgloss.NewStyle().
			PaddingLeft(gridLeft)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	noEventsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Padding(0, 1)

	legendLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Padding(0, 1)

	dayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			MarginLeft(gridLeft - 1)

	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedFieldStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("117")).
				Bold(true)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2).
			Width(30)
)
