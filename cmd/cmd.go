// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Account and session management",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "username",
						Aliases: []string{"u"},
						Usage:   "Display name",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "refresh",
				Usage:  "Re-fetch the user profile from the backend",
				Action: r.AuthRefresh,
			},
		},
	}
}

// uploadCommand publishes a video file
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload a video to the connected platforms",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Video title",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Video description",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Tag, repeatable",
			},
			&cli.StringSliceFlag{
				Name:     "platform",
				Usage:    "Target platform (youtube, tiktok, instagram), repeatable",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "privacy",
				Usage: "Visibility: public, private, or unlisted",
				Value: "private",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Platform category",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive progress bar",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Upload,
	}
}

// videosCommand manages uploaded videos
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"vid"},
		Usage:   "Manage uploaded videos",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your uploads",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export to CSV with this base filename",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.VideosList,
			},
			{
				Name:  "status",
				Usage: "Show the state of a single upload",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.VideoStatus,
			},
			{
				Name:  "update",
				Usage: "Change title, description, or privacy",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "New description",
					},
					&cli.StringFlag{
						Name:  "privacy",
						Usage: "New visibility",
					},
				},
				Action: r.VideoUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete an upload",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm deletion",
					},
				},
				Action: r.VideoDelete,
			},
		},
	}
}

// platformsCommand manages platform connections
func platformsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "platforms",
		Aliases: []string{"plat"},
		Usage:   "Manage platform connections",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show the connection dashboard",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Bypass the cache and refetch",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlatformsStatus,
			},
			{
				Name:  "connect",
				Usage: "Link a platform account via the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "platform",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "client-secrets",
						Usage: "Google client secrets file (YouTube only)",
					},
				},
				Action: r.PlatformConnect,
			},
			{
				Name:  "disconnect",
				Usage: "Revoke a platform connection",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "platform",
					},
				},
				Action: r.PlatformDisconnect,
			},
			{
				Name:  "refresh",
				Usage: "Renew stored platform credentials",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "platform",
					},
				},
				Action: r.PlatformRefresh,
			},
		},
	}
}

// dashboardCommand launches the interactive dashboard
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"tui"},
		Usage:   "Interactive platform dashboard",
		Action:  r.Dashboard,
	}
}
