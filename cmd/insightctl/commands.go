package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"customer-insights/internal/chart"
	"customer-insights/internal/dashboard"
	"customer-insights/internal/export"
	"customer-insights/internal/model"
	"customer-insights/internal/stats"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		st, err := rt.finish(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("backend ready")+" "+st.Board.Health.URL)
		return nil
	},
}

var (
	loginUser          string
	loginPassword      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if loginPasswordStdin {
			p, err := readLine(cmd)
			if err != nil {
				return err
			}
			password = p
		}
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		if rt.app.Authenticated() {
			rt.app.Dispatch(dashboard.LogoutRequested{})
			rt.app.Dispatch(dashboard.NoticesDismissed{})
		}
		rt.app.Dispatch(dashboard.LoginSubmitted{Username: loginUser, Password: password})
		_, err = rt.finish(cmd)
		return err
	},
}

var (
	regEmail    string
	regName     string
	regPassword string
	regConfirm  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		if rt.app.Snapshot().View == dashboard.ViewDashboard {
			return fmt.Errorf("already signed in; run logout first")
		}
		rt.app.Dispatch(dashboard.ShowRegister{})
		rt.app.Dispatch(dashboard.RegisterSubmitted{Email: regEmail, FullName: regName, Password: regPassword, Confirm: regConfirm})
		_, err = rt.finish(cmd)
		return err
	},
}

var (
	uploadType  string
	uploadRows  int
	uploadXLSX  string
	uploadSVG   string
	uploadQuiet bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a CSV or Excel file and print the analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		if !rt.app.Authenticated() {
			return fmt.Errorf("not signed in; run login first")
		}

		rt.app.Dispatch(dashboard.FileSelected{File: model.SelectedFile{
			Name:        filepath.Base(args[0]),
			ContentType: uploadType,
			Data:        data,
		}})
		rt.app.Dispatch(dashboard.UploadRequested{})
		st, err := rt.finish(cmd)
		if st.Board.Status != "" {
			fmt.Fprintln(cmd.OutOrStdout(), st.Board.Status)
		}
		if err != nil || st.Board.Result == nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !uploadQuiet {
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(stats.Tabulate(st.Board.Result.Rows, uploadRows)))
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderBars(st.Board.Distribution, 40))
		}
		if uploadXLSX != "" {
			if err := writeFile(uploadXLSX, func(f *os.File) error {
				return export.WriteXLSX(f, st.Board.Result.Rows, st.CategoryField, st.Board.Distribution)
			}); err != nil {
				return err
			}
		}
		if uploadSVG != "" && len(st.Board.Distribution) > 0 {
			if err := writeFile(uploadSVG, func(f *os.File) error {
				return chart.RenderBar(f, st.Board.Distribution, chart.Options{Title: "Customers per " + st.CategoryField})
			}); err != nil {
				return err
			}
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		rt.app.Dispatch(dashboard.NoticesDismissed{})
		rt.app.Dispatch(dashboard.LogoutRequested{})
		_, err = rt.finish(cmd)
		return err
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session and backend state",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		rt.app.Wait()
		st := rt.app.Snapshot()
		fmt.Fprintln(cmd.OutOrStdout(), renderStatus(st, rt.cfg.Session.Path))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
	_ = loginCmd.MarkFlagRequired("username")

	registerCmd.Flags().StringVar(&regEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&regName, "name", "", "full name")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "password")
	registerCmd.Flags().StringVar(&regConfirm, "confirm", "", "password again")

	uploadCmd.Flags().StringVar(&uploadType, "type", "", "content type to declare (sniffed when empty)")
	uploadCmd.Flags().IntVar(&uploadRows, "rows", 20, "preview rows to print (0 for all)")
	uploadCmd.Flags().StringVar(&uploadXLSX, "xlsx", "", "also write the preview to this .xlsx file")
	uploadCmd.Flags().StringVar(&uploadSVG, "svg", "", "also write the bar chart to this .svg file")
	uploadCmd.Flags().BoolVarP(&uploadQuiet, "quiet", "q", false, "print only the status line")
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
