package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"securebank/pkg/utils"
)

var (
	apiBaseURL  string
	accessToken string
)

type ResponseError struct {
	Message string `json:"message"`
}

type employeeSummary struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName *string  `json:"full_name"`
	IsActive bool     `json:"is_active"`
	Roles    []string `json:"roles"`
}

type employeePage struct {
	Items      []employeeSummary `json:"items"`
	TotalCount int64             `json:"total_count"`
	PageNumber int               `json:"page_number"`
	TotalPages int               `json:"total_pages"`
}

var apiServiceBase = func() *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL).
		SetHeader("Accept", "application/json").
		SetAuthToken(accessToken).
		SetError(&ResponseError{}).
		OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				return fmt.Errorf("%s", resp.Error().(*ResponseError).Message)
			}

			return nil
		})
}

var rootCmd = &cobra.Command{
	Use:   "securebank",
	Short: "SecureBank IAM CLI",
}

var employeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Manage employees",
}

var employeeCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a new employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password := utils.GenerateRandomString(12)

		resp, err := apiServiceBase().R().
			SetBody(map[string]any{
				"email":    email,
				"password": password,
			}).
			SetResult(&employeeSummary{}).
			Post("admin/employees")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		employee := resp.Result().(*employeeSummary)

		fmt.Println("Employee ID :", employee.ID)
		fmt.Println("Email       :", employee.Email)
		fmt.Println("Password    :", password)
	},
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetQueryParam("include_inactive", "true").
			SetResult(&employeePage{}).
			Get("admin/employees")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		page := resp.Result().(*employeePage)

		for _, employee := range page.Items {
			status := "active"
			if !employee.IsActive {
				status = "inactive"
			}
			fmt.Printf("%s  %-30s %s\n", employee.ID, employee.Email, status)
		}
		fmt.Printf("Page %d/%d, %d employees total\n", page.PageNumber, page.TotalPages, page.TotalCount)
	},
}

var employeeResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Send a password reset link to an employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, err := apiServiceBase().R().
			SetBody(map[string]any{"email": args[0]}).
			Post("auth/forgot-password")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println("Reset link sent (if the account is eligible)")
	},
}

var employeeActivateCmd = &cobra.Command{
	Use:   "activate <user_id>",
	Short: "Activate an employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, err := apiServiceBase().R().
			Post(fmt.Sprintf("admin/employees/%s/activate", args[0]))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println("Employee activated")
	},
}

var employeeDeactivateCmd = &cobra.Command{
	Use:   "deactivate <user_id>",
	Short: "Deactivate an employee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, err := apiServiceBase().R().
			Post(fmt.Sprintf("admin/employees/%s/deactivate", args[0]))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println("Employee deactivated")
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "http://localhost:3000/api/", "API base URL")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", os.Getenv("SECUREBANK_TOKEN"), "Access token")

	employeeCmd.AddCommand(employeeCreateCmd)
	employeeCmd.AddCommand(employeeListCmd)
	employeeCmd.AddCommand(employeeResetPasswordCmd)
	employeeCmd.AddCommand(employeeActivateCmd)
	employeeCmd.AddCommand(employeeDeactivateCmd)
	rootCmd.AddCommand(employeeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
