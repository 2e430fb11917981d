package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func client() *apiClient {
	return newAPIClient(strings.TrimRight(baseURL, "/"))
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id %q", arg)
	}
	return id, nil
}

// inventory-cli list — print the whole catalog.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := client().request("GET", "/products", nil)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

// inventory-cli show <id> — print one product.
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a product by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data, err := client().request("GET", fmt.Sprintf("/products/%d", id), nil)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

var (
	addName    string
	addBarcode string
	addPrice   float64
	addStock   int
)

// inventory-cli add — create a product.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addName == "" {
			return errors.New("--name is required")
		}

		body := map[string]interface{}{
			"name":  addName,
			"price": addPrice,
			"stock": addStock,
		}
		if cmd.Flags().Changed("barcode") {
			body["barcode"] = addBarcode
		}

		data, err := client().request("POST", "/products", body)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

var (
	updateName    string
	updateBarcode string
	updatePrice   float64
	updateStock   int
)

// inventory-cli update <id> — partial update; only changed flags are sent.
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		body := map[string]interface{}{}
		if cmd.Flags().Changed("name") {
			body["name"] = updateName
		}
		if cmd.Flags().Changed("barcode") {
			body["barcode"] = updateBarcode
		}
		if cmd.Flags().Changed("price") {
			body["price"] = updatePrice
		}
		if cmd.Flags().Changed("stock") {
			body["stock"] = updateStock
		}
		if len(body) == 0 {
			return errors.New("provide at least one field to update (--name/--barcode/--price/--stock)")
		}

		data, err := client().request("PATCH", fmt.Sprintf("/products/%d", id), body)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

// inventory-cli delete <id> — remove a product.
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data, err := client().request("DELETE", fmt.Sprintf("/products/%d", id), nil)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

var (
	findBarcode string
	findName    string
)

// inventory-cli find — external lookup only; nothing is saved to the
// inventory unless a product is enriched afterwards.
var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find product details via OpenFoodFacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (findBarcode == "") == (findName == "") {
			return errors.New("use exactly one of --barcode or --name")
		}

		var path string
		if findBarcode != "" {
			path = "/products/search?barcode=" + url.QueryEscape(findBarcode)
		} else {
			path = "/products/search?name=" + url.QueryEscape(findName)
		}

		data, err := client().request("GET", path, nil)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

// inventory-cli enrich <id> — fetch external details onto the product.
var enrichCmd = &cobra.Command{
	Use:   "enrich <id>",
	Short: "Enrich an existing product by id using its barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data, err := client().request("PATCH", fmt.Sprintf("/products/%d/enrich", id), nil)
		if err != nil {
			return err
		}
		return printJSON(data)
	},
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "Product name (required)")
	addCmd.Flags().StringVar(&addBarcode, "barcode", "", "Barcode (optional)")
	addCmd.Flags().Float64Var(&addPrice, "price", 0, "Price (default 0)")
	addCmd.Flags().IntVar(&addStock, "stock", 0, "Stock (default 0)")

	updateCmd.Flags().StringVar(&updateName, "name", "", "New name")
	updateCmd.Flags().StringVar(&updateBarcode, "barcode", "", "New barcode")
	updateCmd.Flags().Float64Var(&updatePrice, "price", 0, "New price")
	updateCmd.Flags().IntVar(&updateStock, "stock", 0, "New stock")

	findCmd.Flags().StringVar(&findBarcode, "barcode", "", "Barcode to look up")
	findCmd.Flags().StringVar(&findName, "name", "", "Name to search for")

	rootCmd.AddCommand(listCmd, showCmd, addCmd, updateCmd, deleteCmd, findCmd, enrichCmd)
}
