package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yt-batch-transcriber/internal/media"
)

type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type doctorResult struct {
	OK     bool          `json:"ok"`
	Checks []doctorCheck `json:"checks"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "run dependency and configuration preflight checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := doctorResult{OK: true}
			add := func(name string, ok bool, message string) {
				res.Checks = append(res.Checks, doctorCheck{Name: name, OK: ok, Message: message})
				if !ok {
					res.OK = false
				}
			}

			deps := media.DependencyStatus()
			add("yt-dlp", deps.YTDLPFound, pathOrMissing(deps.YTDLPPath))
			add("ffmpeg", deps.FFmpegFound, pathOrMissing(deps.FFmpegPath))

			if err := a.cfg.RequireStore(); err != nil {
				add("storage config", false, err.Error())
			} else {
				add("storage config", true, fmt.Sprintf("bucket %s", a.cfg.S3.Bucket))
				if jobs, err := a.openJobStore(cmd.Context()); err != nil {
					add("storage reachability", false, err.Error())
				} else if _, err := jobs.ListJobs(cmd.Context()); err != nil {
					add("storage reachability", false, err.Error())
				} else {
					add("storage reachability", true, "bucket listable")
				}
			}

			if strings.TrimSpace(a.cfg.Engine.URL) == "" {
				add("engine config", false, "ENGINE_URL is not set")
			} else {
				add("engine config", true, a.cfg.Engine.URL)
			}

			if jsonOut {
				if err := printJSON(res); err != nil {
					return err
				}
			} else {
				for _, c := range res.Checks {
					label := statusOKStyle.Render("ok")
					if !c.OK {
						label = statusErrStyle.Render("fail")
					}
					fmt.Printf("%-22s %s  %s\n", c.Name, label, statusMutedStyle.Render(c.Message))
				}
			}
			if !res.OK {
				return errors.New("doctor checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON output")
	return cmd
}

func pathOrMissing(path string) string {
	if path == "" {
		return "not found on PATH"
	}
	return path
}
