package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/farellandr/clubhub/internal/derive"
	"github.com/farellandr/clubhub/internal/gateway"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List gallery occasions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		search, _ := cmd.Flags().GetString("search")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.ErrOrStderr())
		defer closeStore()

		occasions, err := s.FetchOccasions(cmd.Context(), gateway.OccasionQuery{Category: category, Search: search})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(occasions) == 0 {
			fmt.Fprintln(w, "No occasions found.")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTITLE\tCATEGORY\tPHOTOS\tSLUG")
		for _, o := range derive.SortByDate(occasions, true) {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", derive.FormatDay(o.Date), o.Title, o.Category.Name, o.PhotoCount, o.Slug)
		}
		return tw.Flush()
	},
}

var galleryShowCmd = &cobra.Command{
	Use:   "show <id|slug>",
	Short: "Show an occasion and its photos",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pending, _ := cmd.Flags().GetBool("pending")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.ErrOrStderr())
		defer closeStore()

		var (
			occasion club.Occasion
			photos   []club.Photo
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			occasion, err = s.FetchOccasion(ctx, args[0])
			return err
		})
		g.Go(func() error {
			var err error
			photos, err = s.FetchPhotos(ctx, args[0], pending)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		printOccasion(cmd.OutOrStdout(), occasion, photos)
		return nil
	},
}

var galleryUploadCmd = &cobra.Command{
	Use:   "upload <occasion id|slug> <file>...",
	Short: "Upload photos to an occasion",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caption, _ := cmd.Flags().GetString("caption")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.OutOrStdout())
		defer closeStore()

		files := make([]gateway.File, 0, len(args)-1)
		for _, path := range args[1:] {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()
			files = append(files, gateway.File{Name: filepath.Base(path), Content: f})
		}

		uploaded, err := s.UploadPhotos(cmd.Context(), args[0], caption, files)
		if err != nil {
			return err
		}
		for _, p := range uploaded {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.ID, approval(p))
		}
		return nil
	},
}

var galleryApproveCmd = &cobra.Command{
	Use:   "approve <photo id>",
	Short: "Approve a submitted photo, or move it back to pending with --reject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reject, _ := cmd.Flags().GetBool("reject")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, closeStore := newStore(cfg, cmd.OutOrStdout())
		defer closeStore()

		_, err = s.ApprovePhoto(cmd.Context(), args[0], !reject)
		return err
	},
}

func init() {
	rootCmd.AddCommand(galleryCmd)
	galleryCmd.AddCommand(galleryShowCmd, galleryUploadCmd, galleryApproveCmd)

	galleryCmd.Flags().String("category", "", "category name or slug")
	galleryCmd.Flags().String("search", "", "match title and description")
	galleryShowCmd.Flags().Bool("pending", false, "include photos awaiting approval (admins only)")
	galleryUploadCmd.Flags().String("caption", "", "caption for every uploaded photo")
	galleryApproveCmd.Flags().Bool("reject", false, "move the photo back to pending")
}

func approval(p club.Photo) string {
	if p.IsApproved {
		return "approved"
	}
	return "pending"
}

func printOccasion(w io.Writer, o club.Occasion, photos []club.Photo) {
	fmt.Fprintf(w, "%s (%s)\n", o.Title, derive.FormatDay(o.Date))
	if o.Description != "" {
		fmt.Fprintf(w, "%s\n", o.Description)
	}
	fmt.Fprintf(w, "\n%d photos\n", len(photos))
	for _, p := range photos {
		fmt.Fprintf(w, "  %s  %-8s  %s  %s\n", p.ID, approval(p), p.URL, p.Caption)
	}
}
