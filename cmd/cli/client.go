package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/viper"
)

// credentials is the token saved by `worldwide auth login`
type credentials struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func credentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "worldwide", "credentials.json"), nil
}

func saveCredentials(creds *credentials) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadCredentials() (*credentials, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func clearCredentials() error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// newClient builds an API client with the saved token attached when one
// exists.
func newClient() *resty.Client {
	c := resty.New().
		SetBaseURL(viper.GetString("api.base_url")).
		SetTimeout(time.Duration(viper.GetInt("api.timeout")) * time.Second).
		SetHeader("User-Agent", "Worldwide-CLI/1.0")

	if creds, err := loadCredentials(); err == nil && creds != nil {
		c.SetAuthToken(creds.Token)
	}

	if verbose {
		c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			fmt.Fprintf(os.Stderr, "%s %s -> %d (%s)\n",
				resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
			return nil
		})
	}
	return c
}

// apiError decodes the server's error payload into a readable message
func apiError(resp *resty.Response) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		switch {
		case body.Message != "":
			return fmt.Errorf("%s: %s", resp.Status(), body.Message)
		case body.Error != "":
			return fmt.Errorf("%s: %s", resp.Status(), body.Error)
		}
	}
	return fmt.Errorf("request failed: %s", resp.Status())
}

// printJSON pretty-prints a response body
func printJSON(data []byte) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		fmt.Println(string(data))
		return
	}
	pretty, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(pretty))
}
