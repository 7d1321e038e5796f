package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/worldwide-social/worldwide/internal/reels"
)

// watchCmd drives the reel rail in the terminal: simulated playback with
// auto-advance, plus n/p to swipe between reels by hand. Completions and
// swipes are reported back to the server as they happen.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the reel rail with auto-advance",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		var result struct {
			Reels []feedItem `json:"reels"`
		}
		resp, err := client.R().
			SetQueryParam("limit", strconv.Itoa(feedLimit)).
			SetResult(&result).
			Get("/reels")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}
		if len(result.Reels) == 0 {
			fmt.Println("No reels to watch.")
			return nil
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		rail := result.Reels
		viewer := reels.NewViewer(len(rail), nil)
		playback := reels.NewPlayback(viewer, reels.ReelDuration, func(index int) {
			reel := rail[index]
			client.R().Post("/reels/" + reel.ID + "/viewed")
		})

		printReel := func(index int) {
			reel := rail[index]
			fmt.Printf("\n(%d/%d) @%s [%s]\n  %s\n",
				index+1, len(rail), reel.User.Username, reel.Category, reel.Caption)
		}
		printReel(0)

		viewer.OnIndexChange(func(oldIndex, newIndex int) {
			direction := "up"
			if newIndex < oldIndex {
				direction = "down"
			}
			go client.R().
				SetBody(map[string]string{"direction": direction}).
				Post("/reels/swipe")
			printReel(newIndex)
			if newIndex == len(rail)-1 {
				fmt.Println("(last reel)")
			}
		})

		go playback.Run(ctx, nil)

		fmt.Println("\n[n]ext  [p]revious  [q]uit")
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			switch strings.TrimSpace(scanner.Text()) {
			case "n", "":
				viewer.Wheel(reels.WheelCommitDelta + 1)
			case "p":
				viewer.Wheel(-(reels.WheelCommitDelta + 1))
			case "q":
				return nil
			}
		}
		return scanner.Err()
	},
}

func init() {
	reelsCmd.AddCommand(watchCmd)
}
