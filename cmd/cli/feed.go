package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var feedLimit int

type feedItem struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Caption  string `json:"caption"`
	Category string `json:"category"`
	Likes    int    `json:"likes"`
	User     struct {
		Username string `json:"username"`
	} `json:"user"`
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "View your interest-ranked feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Posts []feedItem `json:"posts"`
		}
		resp, err := newClient().R().
			SetQueryParam("limit", strconv.Itoa(feedLimit)).
			SetResult(&result).
			Get("/feed")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}

		for _, post := range result.Posts {
			fmt.Printf("[%s] @%s (%d likes, %s)\n  %s\n",
				post.ID[:8], post.User.Username, post.Likes, post.Category, post.Content)
		}
		return nil
	},
}

var reelsCmd = &cobra.Command{
	Use:   "reels",
	Short: "View the reel rail",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result struct {
			Reels []feedItem `json:"reels"`
		}
		resp, err := newClient().R().
			SetQueryParam("limit", strconv.Itoa(feedLimit)).
			SetResult(&result).
			Get("/reels")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}

		for _, reel := range result.Reels {
			fmt.Printf("[%s] @%s (%s)\n  %s\n",
				reel.ID[:8], reel.User.Username, reel.Category, reel.Caption)
		}
		return nil
	},
}

func init() {
	feedCmd.Flags().IntVar(&feedLimit, "limit", 20, "Number of items to fetch")
	reelsCmd.Flags().IntVar(&feedLimit, "limit", 20, "Number of items to fetch")
}
