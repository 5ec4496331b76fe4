package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/internal/repository"
	"github.com/noah-isme/sports-school-ops/internal/service"
)

// reconcile_dump fetches the spreadsheet (or reads a saved payload), runs the
// reconciliation offline and prints what the dashboard would show.
func main() {
	var (
		scriptURL string
		file      string
		unit      string
		timeout   time.Duration
		all       bool
	)

	flag.StringVar(&scriptURL, "url", "", "Spreadsheet script URL")
	flag.StringVar(&file, "file", "", "Path to a saved JSON payload")
	flag.StringVar(&unit, "unit", "", "Only show alerts for this unit")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout")
	flag.BoolVar(&all, "all", false, "Include handled alerts")
	flag.Parse()

	if (scriptURL == "") == (file == "") {
		log.Fatal("exactly one of -url or -file is required")
	}

	payload, err := loadPayload(scriptURL, file, timeout)
	if err != nil {
		log.Fatalf("failed to load payload: %v", err)
	}

	dataset := service.Reconcile(payload.Base, payload.Classes, payload.Attendance)
	fmt.Println("Reconciliation Report")
	fmt.Println("=====================")
	fmt.Printf("Base rows: %d | Class rows: %d | Attendance rows: %d\n", len(payload.Base), len(payload.Classes), len(payload.Attendance))
	fmt.Printf("Students: %d | Classes: %d | Enrollments: %d | Attendance: %d\n",
		len(dataset.Students), len(dataset.Classes), len(dataset.Enrollments), len(dataset.Attendance))

	alerts := service.ComputeChurnAlerts(dataset.Attendance, nil)
	if !all {
		alerts = service.OpenAlerts(alerts)
	}
	printAlerts(alerts, unit)
}

func loadPayload(scriptURL, file string, timeout time.Duration) (*models.RemotePayload, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var payload models.RemotePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return repository.NewSheetRepository(timeout, zap.NewNop()).Fetch(ctx, scriptURL)
}

func printAlerts(alerts []models.RiskAlert, unit string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSTUDENT\tUNIT\tCLASS\tABSENCE %\tIN A ROW\tLAST CLASS")
	shown := 0
	for _, a := range alerts {
		if unit != "" && !service.HasAccess(unit, a.Unit) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n", a.Level, a.StudentName, a.Unit, a.ClassName, a.AbsenceRate, a.RecentAbsences, a.LastDate)
		shown++
	}
	_ = w.Flush()
	fmt.Printf("Alerts: %d\n", shown)
}
