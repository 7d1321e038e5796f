package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	aiAspectRatio string
	aiResolution  string
	aiVoice       string
	aiOutputFile  string
	aiWait        bool
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Generative tools",
}

var aiChatCmd = &cobra.Command{
	Use:   "chat <prompt>",
	Short: "Ask the assistant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Text string `json:"text"`
		}
		resp, err := newClient().R().
			SetBody(map[string]string{"prompt": args[0]}).
			SetResult(&result).
			Post("/ai/chat")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}
		fmt.Println(result.Text)
		return nil
	},
}

var aiImageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"prompt": args[0]}
		if aiAspectRatio != "" {
			body["aspect_ratio"] = aiAspectRatio
		}

		resp, err := newClient().R().SetBody(body).Post("/ai/image")
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

var aiSpeechCmd = &cobra.Command{
	Use:   "speech <text>",
	Short: "Narrate text to a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"text": args[0]}
		if aiVoice != "" {
			body["voice"] = aiVoice
		}

		resp, err := newClient().R().SetBody(body).Post("/ai/speech")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}

		if err := os.WriteFile(aiOutputFile, resp.Body(), 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %d bytes to %s\n", len(resp.Body()), aiOutputFile)
		return nil
	},
}

var aiVideoCmd = &cobra.Command{
	Use:   "video <prompt>",
	Short: "Start a video render",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"prompt": args[0]}
		if aiAspectRatio != "" {
			body["aspect_ratio"] = aiAspectRatio
		}
		if aiResolution != "" {
			body["resolution"] = aiResolution
		}

		var job struct {
			ID    string `json:"id"`
			State string `json:"state"`
		}
		resp, err := newClient().R().SetBody(body).SetResult(&job).Post("/ai/video")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}

		fmt.Printf("Render started: %s\n", job.ID)
		if !aiWait {
			fmt.Printf("Check progress with: worldwide ai video-status %s\n", job.ID)
			return nil
		}

		// Renders take a minute or two; poll until the job settles
		for {
			time.Sleep(10 * time.Second)
			done, err := printVideoStatus(job.ID)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	},
}

var aiVideoStatusCmd = &cobra.Command{
	Use:   "video-status <job-id>",
	Short: "Check a video render",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := printVideoStatus(args[0])
		return err
	},
}

func printVideoStatus(jobID string) (bool, error) {
	resp, err := newClient().R().Get("/ai/video/" + jobID)
	if err != nil {
		return false, err
	}
	if resp.IsError() {
		return false, apiError(resp)
	}

	var job struct {
		State    string `json:"state"`
		VideoURI string `json:"video_uri"`
		Error    string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &job); err != nil {
		return false, err
	}

	switch job.State {
	case "done":
		fmt.Printf("Done: %s\n", job.VideoURI)
		return true, nil
	case "failed":
		return true, fmt.Errorf("render failed: %s", job.Error)
	default:
		fmt.Printf("State: %s\n", job.State)
		return false, nil
	}
}

func init() {
	aiImageCmd.Flags().StringVar(&aiAspectRatio, "aspect-ratio", "", "Aspect ratio (1:1, 16:9, 9:16)")
	aiVideoCmd.Flags().StringVar(&aiAspectRatio, "aspect-ratio", "", "Aspect ratio (16:9, 9:16)")
	aiVideoCmd.Flags().StringVar(&aiResolution, "resolution", "720p", "Render resolution")
	aiVideoCmd.Flags().BoolVar(&aiWait, "wait", false, "Poll until the render finishes")
	aiSpeechCmd.Flags().StringVar(&aiVoice, "voice", "", "Voice name")
	aiSpeechCmd.Flags().StringVar(&aiOutputFile, "output", "speech.wav", "Output WAV path")

	aiCmd.AddCommand(aiChatCmd)
	aiCmd.AddCommand(aiImageCmd)
	aiCmd.AddCommand(aiSpeechCmd)
	aiCmd.AddCommand(aiVideoCmd)
	aiCmd.AddCommand(aiVideoStatusCmd)
}
