// Command mcp-studydesk exposes reminders, the timetable, the academic
// calculators and the holiday calendar as MCP tools over stdio.
//
// Usage:
//
//	./mcp-studydesk          # Start MCP server (stdio)
//	./mcp-studydesk --help   # Show help
//
// Environment:
//
//	STUDYDESK_CONFIG  Path to the configuration file (default: ~/.studydesk/config.yaml)
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/studydesk/internal/config"
	"github.com/notexe/studydesk/internal/desk"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	configPath := os.Getenv("STUDYDESK_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol; the logger writes to stderr.
	logger := desk.NewLogger(cfg, "mcp")
	d, err := desk.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	logger.Info("serving", "db", cfg.Database.Path, "tools", len(d.Tools()))
	if err := server.ServeStdio(d.MCPServer()); err != nil {
		logger.Error("server stopped", "err", err)
		d.Close()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`StudyDesk MCP Server - student reminders and schedules via MCP

USAGE:
    mcp-studydesk          Start MCP server (communicates via stdio)
    mcp-studydesk --help   Show this help

ENVIRONMENT:
    STUDYDESK_CONFIG         Path to the configuration file
                             Default: ~/.studydesk/config.yaml
    STUDYDESK_DATABASE__PATH Override the SQLite database path

TOOLS:
    add_reminder          Add a reminder (title, type, due_date, due_time, description)
    list_reminders        List reminders sorted by urgency (type and urgency filters)
    get_due_reminders     Reminders overdue or due within three hours
    complete_reminder     Mark a reminder as completed
    delete_reminder       Delete a reminder permanently
    update_reminder       Update reminder fields
    cleanup_duplicates    Remove duplicate reminders
    reminder_stats        Counts by urgency
    parse_reminder        Extract a reminder from a class announcement
    get_timetable         Classes for a day or the whole week
    add_class             Add a class slot
    delete_class          Remove a class slot
    add_exam              Add an exam
    list_exams            Exams with time left
    next_exam             Countdown to the next exam
    delete_exam           Remove an exam
    calculate_cgpa        CGPA from semester SGPAs and credits
    calculate_attendance  Attendance status and classes to attend or skip
    calculation_history   Recent calculations
    list_holidays         Holidays by year, month, type or name
    next_holiday          The next holiday

CONFIGURATION:
    Add to your mcp.json:
    {
      "mcpServers": {
        "studydesk": {
          "command": "/path/to/mcp-studydesk",
          "args": []
        }
      }
    }`)
}
