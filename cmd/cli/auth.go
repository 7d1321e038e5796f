package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
}

var authRegisterCmd = &cobra.Command{
	Use:   "register <username> <display-name> <password>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate("/auth/register", map[string]string{
			"username":     args[0],
			"display_name": args[1],
			"password":     args[2],
		})
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and save a session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate("/auth/login", map[string]string{
			"username": args[0],
			"password": args[1],
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearCredentials(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var authMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().R().Get("/auth/me")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}
		printJSON(resp.Body())
		return nil
	},
}

func authenticate(path string, body map[string]string) error {
	var result struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}

	resp, err := newClient().R().SetBody(body).SetResult(&result).Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}

	err = saveCredentials(&credentials{
		Token:    result.Token,
		UserID:   result.User.ID,
		Username: result.User.Username,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", result.User.Username)
	return nil
}

func init() {
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authMeCmd)
}
