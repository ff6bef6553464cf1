package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/olekukonko/tablewriter"
)

// btoctl is an operator console for inspecting the allocation state directly
// against the database: project inventory, application pipeline, and officer
// registrations.

func init() {
	// Load .env file if present; environment variables win otherwise.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}
}

func main() {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_NAME", "bto_portal"),
		envOr("DB_SSL_MODE", "disable"))

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "projects":
		listProjects(db)
	case "inventory":
		showInventory(db)
	case "applications":
		status := ""
		if len(os.Args) > 2 {
			status = strings.ToUpper(os.Args[2])
		}
		listApplications(db, status)
	case "registrations":
		listRegistrations(db)
	case "bookings":
		listBookings(db)
	default:
		color.Red("Unknown command: %s", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	color.Cyan("BTO Portal operator console")
	fmt.Println("Usage: btoctl <command>")
	fmt.Println("Commands:")
	fmt.Println("  projects              list all projects with their windows")
	fmt.Println("  inventory             per-project flat type availability")
	fmt.Println("  applications [STATUS] list applications, optionally by status")
	fmt.Println("  registrations         list officer registrations")
	fmt.Println("  bookings              list booked flats")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func listProjects(db *sql.DB) {
	rows, err := db.Query(`
		SELECT id, name, neighborhood, open_date, close_date, manager_nric,
		       available_officer_slots, officer_slot_capacity, visible
		FROM projects ORDER BY open_date DESC`)
	if err != nil {
		color.Red("Error fetching projects: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nProjects")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Neighborhood", "Open", "Close", "Manager", "Slots", "Visible"})

	for rows.Next() {
		var id int32
		var name, neighborhood, manager string
		var openDate, closeDate string
		var slotsFree, slotsCap int32
		var visible bool
		if err := rows.Scan(&id, &name, &neighborhood, &openDate, &closeDate, &manager, &slotsFree, &slotsCap, &visible); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", id), name, neighborhood,
			openDate[:10], closeDate[:10], manager,
			fmt.Sprintf("%d/%d", slotsFree, slotsCap),
			fmt.Sprintf("%t", visible),
		})
	}
	table.Render()
}

func showInventory(db *sql.DB) {
	rows, err := db.Query(`
		SELECT p.id, p.name, u.flat_type, u.available_units, u.total_units
		FROM project_units u
		JOIN projects p ON p.id = u.project_id
		ORDER BY p.id, u.flat_type`)
	if err != nil {
		color.Red("Error fetching inventory: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nFlat Inventory")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Project", "Name", "Flat Type", "Available", "Total"})

	for rows.Next() {
		var id, available, total int32
		var name, flatType string
		if err := rows.Scan(&id, &name, &flatType, &available, &total); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", id), name, flatType,
			fmt.Sprintf("%d", available), fmt.Sprintf("%d", total),
		})
	}
	table.Render()
}

func listApplications(db *sql.DB, status string) {
	query := `
		SELECT a.id, a.applicant_nric, p.name, a.requested_flat_type, a.status, a.applied_on
		FROM applications a
		JOIN projects p ON p.id = a.project_id`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE a.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY a.applied_on DESC LIMIT 100`

	rows, err := db.Query(query, args...)
	if err != nil {
		color.Red("Error fetching applications: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nApplications")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Applicant", "Project", "Flat Type", "Status", "Applied"})

	for rows.Next() {
		var id, nric, project, flatType, appStatus, appliedOn string
		if err := rows.Scan(&id, &nric, &project, &flatType, &appStatus, &appliedOn); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		table.Append([]string{shortID(id), nric, project, flatType, appStatus, appliedOn[:10]})
	}
	table.Render()
}

func listRegistrations(db *sql.DB) {
	rows, err := db.Query(`
		SELECT r.id, r.officer_nric, p.name, r.status, r.registered_on
		FROM officer_registrations r
		JOIN projects p ON p.id = r.project_id
		ORDER BY r.registered_on DESC LIMIT 100`)
	if err != nil {
		color.Red("Error fetching registrations: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nOfficer Registrations")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Officer", "Project", "Status", "Registered"})

	for rows.Next() {
		var id, nric, project, status, registeredOn string
		if err := rows.Scan(&id, &nric, &project, &status, &registeredOn); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		table.Append([]string{shortID(id), nric, project, status, registeredOn[:10]})
	}
	table.Render()
}

func listBookings(db *sql.DB) {
	rows, err := db.Query(`
		SELECT f.id, p.name, f.flat_type, a.applicant_nric, f.created_on
		FROM flats f
		JOIN projects p ON p.id = f.project_id
		JOIN applications a ON a.id = f.application_id
		ORDER BY f.created_on DESC LIMIT 100`)
	if err != nil {
		color.Red("Error fetching bookings: %v", err)
		return
	}
	defer rows.Close()

	color.Yellow("\nBooked Flats")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Flat", "Project", "Flat Type", "Applicant", "Booked"})

	for rows.Next() {
		var id, project, flatType, nric, createdOn string
		if err := rows.Scan(&id, &project, &flatType, &nric, &createdOn); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		table.Append([]string{id, project, flatType, nric, createdOn[:10]})
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
