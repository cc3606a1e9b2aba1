package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "get-mass":
		handleGetMass(os.Args[2:])
	case "get-mass-range":
		handleGetMassRange(os.Args[2:])
	case "get-sunday-mass-range":
		handleGetSundayMassRange(os.Args[2:])
	case "get-mass-types":
		handleGetMassTypes(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("lectio - Daily mass readings client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lectio <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  get-mass               Get the mass for one date")
	fmt.Println("  get-mass-range         Get masses over a date range")
	fmt.Println("  get-sunday-mass-range  Get Sunday masses over a date range")
	fmt.Println("  get-mass-types         List the mass types published for a date")
	fmt.Println("  help                   Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  LECTIO_BASE_URL  Override the readings base address")
}
