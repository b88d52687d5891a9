package main

import (
	"context"
	"fmt"
	"io"
	"meeting-lab/auth"
	"meeting-lab/infrastructure/grpc/api"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const callTimeout = 10 * time.Second

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(authed(context.Background()), callTimeout)
}

var loginCmd = &cobra.Command{
	Use:   "login <login>",
	Short: "Log in as a member and save the token.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("MEETCTL_PASSWORD")
		}
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.Login(ctx, &api.LoginRequest{Login: args[0], Password: password})
		if err != nil {
			return err
		}
		return finishLogin(cmd.OutOrStdout(), res)
	},
}

var redeemCmd = &cobra.Command{
	Use:   "redeem <code>",
	Short: "Join as a guest with an invite code and save the token.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.RedeemInvite(ctx, &api.RedeemRequest{Code: args[0]})
		if err != nil {
			return err
		}
		return finishLogin(cmd.OutOrStdout(), res)
	},
}

func finishLogin(w io.Writer, res *api.LoginResponse) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	if err := saveToken(res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Fprintln(w, commandText(true, res.Message))
	return nil
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show who you are and where the quorum stands.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.Me(ctx, &api.Empty{})
		if err != nil {
			return err
		}
		renderMe(cmd.OutOrStdout(), res)
		return nil
	},
}

var postCmd = &cobra.Command{
	Use:   "post <room> <message...>",
	Short: "Post a message to a room.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.Post(ctx, &api.PostRequest{Room: args[0], Body: strings.Join(args[1:], " ")})
		return printCommand(cmd.OutOrStdout(), res, err)
	},
}

var modCmd = &cobra.Command{
	Use:       "mod <block|unblock|ban|unban|redact> <target>",
	Short:     "Run a moderation action (administrators only).",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"block", "unblock", "ban", "unban", "redact"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.Moderate(ctx, &api.ModerateRequest{Action: args[0], Target: args[1]})
		return printCommand(cmd.OutOrStdout(), res, err)
	},
}

var proxyCmd = &cobra.Command{
	Use:   "proxy <member...>",
	Short: "Declare the members you hold a proxy for.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.AssignProxies(ctx, &api.ProxyRequest{Members: args})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), commandText(res.Success, res.Message))
		return nil
	},
}

var inviteCmd = &cobra.Command{
	Use:   "invite <name>",
	Short: "Create a single-use guest invite.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.CreateInvite(ctx, &api.InviteRequest{Name: args[0]})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), commandText(res.Success, res.Message))
		if res.Success {
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the attendance and chat archive.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.Export(ctx, &api.Empty{})
		if err != nil {
			return err
		}
		if out == "" {
			out = res.Name
		}
		if err := os.WriteFile(out, res.Data, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d bytes (%s) written to %s\n", len(res.Data), res.ContentType, out)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the chat history.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		room, _ := cmd.Flags().GetString("room")
		lang, _ := cmd.Flags().GetString("lang")
		limit, _ := cmd.Flags().GetInt("limit")
		ctx, cancel := withTimeout()
		defer cancel()
		res, err := client.Search(ctx, &api.SearchRequest{
			Query: strings.Join(args, " "),
			Room:  room,
			Lang:  lang,
			Limit: limit,
		})
		if err != nil {
			return err
		}
		renderHits(cmd.OutOrStdout(), res)
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Stream rooms, history, live messages and presence until Ctrl+C.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(authed(context.Background()), os.Interrupt, syscall.SIGTERM)
		defer stop()
		stream, err := client.Connect(ctx, &api.ConnectRequest{})
		if err != nil {
			return err
		}
		p := newPainter(viper.GetBool(colorKey))
		for {
			frame, err := stream.Recv()
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.frame(frame))
		}
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash a password for the members section of the meeting file.",
	Args:  cobra.NoArgs,
	// No server call: skip dialing.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if err := auth.ValidateHashRequest(auth.HashRequest{Password: password}); err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("password", "p", "", "password (or MEETCTL_PASSWORD)")
	hashCmd.Flags().StringP("password", "p", "", "password to hash")
	_ = hashCmd.MarkFlagRequired("password")
	exportCmd.Flags().StringP("out", "o", "", "output file (default is the server-provided name)")
	searchCmd.Flags().String("room", "", "restrict to one room")
	searchCmd.Flags().String("lang", "", "restrict to a detected language (ISO 639-1)")
	searchCmd.Flags().Int("limit", 20, "maximum number of hits")
}

func printCommand(w io.Writer, res *api.CommandResponse, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(w, commandText(res.Success, res.Message))
	return nil
}
