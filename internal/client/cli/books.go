package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"bookswap/internal/client"
	"bookswap/internal/domain/model"

	"github.com/spf13/cobra"
)

func NewBooksCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage book listings",
	}
	cmd.AddCommand(newBooksListCommand(opts))
	cmd.AddCommand(newBooksFiltersCommand(opts))
	cmd.AddCommand(newBooksShowCommand(opts))
	cmd.AddCommand(newBooksMineCommand(opts))
	cmd.AddCommand(newBooksAddCommand(opts))
	cmd.AddCommand(newBooksEditCommand(opts))
	cmd.AddCommand(newBooksStatusCommand(opts))
	cmd.AddCommand(newBooksDeleteCommand(opts))
	return cmd
}

type listOptions struct {
	Genre    string
	Location string
	Status   string
	Search   string
}

func newBooksListCommand(opts *RootOptions) *cobra.Command {
	lo := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered and searched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.api()
			if err != nil {
				return err
			}
			browse := client.NewBrowse(c)
			filter := model.BookFilter{Genre: lo.Genre, Location: lo.Location, Status: model.BookStatus(lo.Status)}
			if err := browse.SetFilter(background(cmd), filter); err != nil {
				return err
			}
			browse.SetSearch(lo.Search)
			return opts.out(cmd).books(browse.Books())
		},
	}

	cmd.Flags().StringVar(&lo.Genre, "genre", "", "exact genre")
	cmd.Flags().StringVar(&lo.Location, "location", "", "exact location")
	cmd.Flags().StringVar(&lo.Status, "status", "", "available, rented or exchanged")
	cmd.Flags().StringVarP(&lo.Search, "query", "q", "", "search title, author and genre")
	return cmd
}

func newBooksFiltersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show the genres and locations available for filtering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.api()
			if err != nil {
				return err
			}
			fo, err := c.FilterOptions(background(cmd))
			if err != nil {
				return err
			}
			return opts.out(cmd).options(fo)
		},
	}
}

func newBooksShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book and how to contact its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.api()
			if err != nil {
				return err
			}
			b, err := c.GetBook(background(cmd), args[0])
			if err != nil {
				return err
			}
			return opts.out(cmd).book(b)
		},
	}
}

func newBooksMineCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your books with status counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			d := client.NewDashboard(c, sess.User.ID)
			if err := d.Load(background(cmd)); err != nil {
				return err
			}
			out := opts.out(cmd)
			if opts.Format == "json" {
				return out.json(struct {
					Books []model.Book    `json:"books"`
					Stats model.BookStats `json:"stats"`
				}{d.Books(), d.Stats()})
			}
			if err := out.stats(d.Stats()); err != nil {
				return err
			}
			return out.books(d.Books())
		},
	}
}

type bookFlags struct {
	fields model.BookFields
	year   int
	cover  string
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fields.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.fields.Author, "author", "", "author")
	cmd.Flags().StringVar(&f.fields.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&f.fields.Location, "location", "", "location")
	cmd.Flags().StringVar(&f.fields.Contact, "contact", "", "how seekers reach you")
	cmd.Flags().StringVar(&f.fields.Description, "description", "", "description")
	cmd.Flags().IntVar(&f.year, "year", 0, "publish year")
	cmd.Flags().StringVar(&f.cover, "cover", "", "cover image file (jpeg, png, gif, webp)")
}

func (f *bookFlags) values(cmd *cobra.Command) model.BookFields {
	fields := f.fields
	if cmd.Flags().Changed("year") {
		year := f.year
		fields.PublishYear = &year
	}
	return fields
}

// openCover opens path for upload. The caller closes the returned file.
func openCover(path string) (*client.Cover, *os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open cover: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	return &client.Cover{Filename: filepath.Base(path), ContentType: ct, Body: file}, file, nil
}

func newBooksAddCommand(opts *RootOptions) *cobra.Command {
	bf := &bookFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "List a new book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			cover, file, err := openCover(bf.cover)
			if err != nil {
				return err
			}
			defer file.Close()

			d := client.NewDashboard(c, sess.User.ID)
			b, err := d.Create(background(cmd), bf.values(cmd), cover)
			if err != nil {
				return err
			}
			return opts.out(cmd).book(b)
		},
	}
	bf.register(cmd)
	for _, f := range []string{"title", "author", "location", "contact", "cover"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newBooksEditCommand(opts *RootOptions) *cobra.Command {
	bf := &bookFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of one of your books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			var cover *client.Cover
			if bf.cover != "" {
				var file *os.File
				cover, file, err = openCover(bf.cover)
				if err != nil {
					return err
				}
				defer file.Close()
			}

			d := client.NewDashboard(c, sess.User.ID)
			b, err := d.Update(background(cmd), args[0], bf.values(cmd), cover)
			if err != nil {
				return err
			}
			return opts.out(cmd).book(b)
		},
	}
	bf.register(cmd)
	return cmd
}

func newBooksStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <available|rented|exchanged>",
		Short:     "Mark one of your books available, rented or exchanged",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.StatusAvailable), string(model.StatusRented), string(model.StatusExchanged)},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			d := client.NewDashboard(c, sess.User.ID)
			b, err := d.UpdateStatus(background(cmd), args[0], model.BookStatus(args[1]))
			if err != nil {
				return err
			}
			return opts.out(cmd).book(b)
		},
	}
}

func newBooksDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove one of your books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, sess, err := opts.authed()
			if err != nil {
				return err
			}
			d := client.NewDashboard(c, sess.User.ID)
			if err := d.Delete(background(cmd), args[0]); err != nil {
				return err
			}
			return opts.out(cmd).message("Book deleted")
		},
	}
}
