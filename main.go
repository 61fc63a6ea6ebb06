package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"heatcal/heatmap"
)

func main() {
	configFlag := flag.String("config", "", "Config file (default: heatcal.yaml in . or ~/.config/heatcal)")
	monthFlag := flag.String("month", "", "Month to show, YYYY-MM (default: current month)")
	printFlag := flag.Bool("print", false, "Print the month grid and quit")
	exportFlag := flag.String("export", "", "Write the month grid to a .png or .svg file and quit")
	logFlag := flag.String("log", "", "Write logs to this file while the TUI runs")
	flag.Parse()

	config, configPath, err := loadConfig(*configFlag)
	if err != nil {
		if *configFlag != "" || !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	month := time.Now()
	if *monthFlag != "" {
		month, err = time.ParseInLocation("2006-01", *monthFlag, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -month %q, want YYYY-MM\n", *monthFlag)
			os.Exit(2)
		}
	}

	oneShot := *printFlag || *exportFlag != ""
	m, err := initialModel(config, configPath, month, oneShot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *exportFlag != "" {
		if err := m.exportMonth(*exportFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *printFlag {
		fmt.Println(m.View())
		return
	}

	if *logFlag != "" {
		f, err := tea.LogToFile(*logFlag, "heatcal")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

// exportFile writes w to path in the format named by its extension.
func exportFile(w *heatmap.Widget, path string, background color.NRGBA) error {
	format, err := heatmap.FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := heatmap.Export(w, format, file, background); err != nil {
		file.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return file.Close()
}
