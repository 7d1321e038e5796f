package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	postCategory string
	postImage    string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish and interact with posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Publish a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"content": args[0]}
		if postCategory != "" {
			body["category"] = postCategory
		}
		if postImage != "" {
			body["image"] = postImage
		}

		resp, err := newClient().R().SetBody(body).Post("/posts")
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

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE:  postAction("like"),
}

var postSaveCmd = &cobra.Command{
	Use:   "save <post-id>",
	Short: "Bookmark a post",
	Args:  cobra.ExactArgs(1),
	RunE:  postAction("save"),
}

var postShareCmd = &cobra.Command{
	Use:   "share <post-id>",
	Short: "Share a post",
	Args:  cobra.ExactArgs(1),
	RunE:  postAction("share"),
}

var postCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().R().
			SetBody(map[string]string{"text": args[1]}).
			Post("/posts/" + args[0] + "/comments")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}
		fmt.Println("Comment posted")
		return nil
	},
}

func postAction(action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().R().Post("/posts/" + args[0] + "/" + action)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return apiError(resp)
		}
		printJSON(resp.Body())
		return nil
	}
}

func init() {
	postCreateCmd.Flags().StringVar(&postCategory, "category", "", "Content category (Tech, Art, Music, ...)")
	postCreateCmd.Flags().StringVar(&postImage, "image", "", "Image URL to attach")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postSaveCmd)
	postCmd.AddCommand(postShareCmd)
	postCmd.AddCommand(postCommentCmd)
}
