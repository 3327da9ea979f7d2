package main

import (
	"os"

	"github.com/budgetbook/backend/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
