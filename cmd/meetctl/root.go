package main

import (
	"context"
	"fmt"
	"meeting-lab/infrastructure/grpc/api"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const (
	serverKey = "server"
	tokenKey  = "token"
	colorKey  = "color"
)

var (
	cfgFile  string
	grpcConn *grpc.ClientConn
	client   api.MeetingServiceClient
)

var rootCmd = &cobra.Command{
	Use:           "meetctl",
	Short:         "Talk to a meeting server from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The connection is lazy: commands that never call the server never dial.
		conn, err := grpc.NewClient(viper.GetString(serverKey), grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("did not connect to meeting server: %w", err)
		}
		grpcConn = conn
		client = api.NewMeetingServiceClient(conn)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if grpcConn != nil {
			return grpcConn.Close()
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meetctl.yaml)")
	rootCmd.PersistentFlags().String("server", "localhost:8080", "address of the meeting gRPC server")
	rootCmd.PersistentFlags().String("token", "", "bearer token, saved by login and redeem")
	rootCmd.PersistentFlags().Bool("color", true, "colorize output")
	_ = viper.BindPFlag(serverKey, rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag(tokenKey, rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag(colorKey, rootCmd.PersistentFlags().Lookup("color"))
	viper.SetDefault(serverKey, "localhost:8080")
	viper.SetDefault(colorKey, true)

	rootCmd.AddCommand(
		loginCmd, redeemCmd, meCmd, postCmd, modCmd, proxyCmd,
		inviteCmd, exportCmd, searchCmd, connectCmd, hashCmd,
	)
}

// initConfig reads the config file and MEETCTL_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".meetctl")
	}
	viper.SetEnvPrefix("meetctl")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// saveToken persists the token so later commands are authenticated.
func saveToken(token string) error {
	viper.Set(tokenKey, token)
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".meetctl.yaml")
	}
	return viper.WriteConfigAs(path)
}

func authed(ctx context.Context) context.Context {
	token := viper.GetString(tokenKey)
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}
