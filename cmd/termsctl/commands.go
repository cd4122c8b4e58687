package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	termsclient "github.com/bobmcallan/terms/internal/clients/terms"
	"github.com/bobmcallan/terms/internal/interfaces"
	"github.com/bobmcallan/terms/internal/models"
)

// Command-specific flags
var (
	showRevisionFlag  int
	agreeRevisionFlag int
	publishTitleFlag  string
	publishContent    string
	publishFileFlag   string
	agreementsTerms   []string
)

func init() {
	showCmd.Flags().IntVar(&showRevisionFlag, "revision", -1, "specific revision (0 is valid; omit for latest)")
	agreeCmd.Flags().IntVar(&agreeRevisionFlag, "revision", -1, "revision to agree to (required)")
	agreeCmd.MarkFlagRequired("revision")
	publishCmd.Flags().StringVar(&publishTitleFlag, "title", "", "document title")
	publishCmd.Flags().StringVar(&publishContent, "content", "", "terms text")
	publishCmd.Flags().StringVar(&publishFileFlag, "file", "", "read terms text from a file (.pdf supported)")
	agreementsCmd.Flags().StringSliceVar(&agreementsTerms, "terms", nil, "filter to the named documents")
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a terms document",
	Long: `Show the latest revision of a terms document, or a specific
revision with --revision. Revision 0 is a valid explicit revision.

Examples:
  termsctl show canonical
  termsctl show canonical --revision 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts []interfaces.TermsOption
		if cmd.Flags().Changed("revision") {
			opts = append(opts, interfaces.WithRevision(showRevisionFlag))
		}

		term, err := newClient().ShowTerms(context.Background(), args[0], opts...)
		if err != nil {
			return err
		}
		if term == nil {
			fmt.Printf("No terms found for %q\n", args[0])
			return nil
		}

		fmt.Print(formatTerm(term))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all terms documents",
	Long:  "List the latest revision of every published terms document.",
	RunE: func(cmd *cobra.Command, args []string) error {
		terms, err := fetchTermList(context.Background(), "/terms")
		if err != nil {
			return err
		}
		if len(terms) == 0 {
			fmt.Println("No terms documents published")
			return nil
		}
		printTermTable(terms)
		return nil
	},
}

var revisionsCmd = &cobra.Command{
	Use:   "revisions [name]",
	Short: "List every revision of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		terms, err := fetchTermList(context.Background(), "/terms/"+args[0]+"/revisions")
		if err != nil {
			return err
		}
		if len(terms) == 0 {
			fmt.Printf("No terms found for %q\n", args[0])
			return nil
		}
		printTermTable(terms)
		return nil
	},
}

var agreementsCmd = &cobra.Command{
	Use:   "agreements",
	Short: "List your recorded agreements",
	Long: `List the agreements recorded for the authenticated user,
optionally filtered to specific documents.

Examples:
  termsctl agreements
  termsctl agreements --terms canonical --terms enterprise`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := context.Background()

		var agreements []*models.Agreement
		var err error
		if len(agreementsTerms) > 0 {
			agreements, err = client.GetAgreementsByTerms(ctx, agreementsTerms)
		} else {
			agreements, err = client.GetAgreements(ctx)
		}
		if err != nil {
			return err
		}

		if len(agreements) == 0 {
			fmt.Println("No agreements recorded")
			return nil
		}
		for _, a := range agreements {
			fmt.Printf("%-24s revision %-4d agreed %s\n",
				a.Term, a.Revision, a.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var agreeCmd = &cobra.Command{
	Use:   "agree [name]",
	Short: "Record agreement to a terms revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		agreement, err := newClient().SaveAgreement(context.Background(), args[0], agreeRevisionFlag)
		if err != nil {
			return err
		}
		fmt.Printf("Agreed to %s revision %d (agreement %s)\n",
			agreement.Term, agreement.Revision, agreement.ID)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish [name]",
	Short: "Publish the next revision of a document",
	Long: `Publish terms text as the next revision of the named document.
The service assigns the revision number; a new document starts at 1.

Content comes from --content or --file. PDF files have their text
extracted before publishing.

Examples:
  termsctl publish canonical --title "Canonical terms" --content "..."
  termsctl publish canonical --title "Canonical terms" --file terms.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := resolveContent(publishContent, publishFileFlag)
		if err != nil {
			return err
		}

		term, err := newClient().PublishTerm(context.Background(), args[0], publishTitleFlag, content)
		if err != nil {
			return err
		}
		fmt.Printf("Published %s revision %d\n", term.Name, term.Revision)
		return nil
	},
}

// resolveContent returns the terms text from the --content flag or the
// --file flag. Exactly one source must be supplied. PDF files are
// extracted to plain text.
func resolveContent(content, filePath string) (string, error) {
	if content != "" && filePath != "" {
		return "", fmt.Errorf("supply --content or --file, not both")
	}
	if content != "" {
		return content, nil
	}
	if filePath == "" {
		return "", fmt.Errorf("terms text required: supply --content or --file")
	}

	if strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return extractPDFText(filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return string(data), nil
}

// wireTerm mirrors the service's term shape; created-on carries the
// RFC3339 creation timestamp.
type wireTerm struct {
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	Title     string `json:"title"`
	Revision  int    `json:"revision"`
	Content   string `json:"content"`
	CreatedOn string `json:"created-on"`
}

// fetchTermList GETs a terms collection endpoint and decodes the array.
// Used for the list endpoints the single-document client does not cover.
func fetchTermList(ctx context.Context, endpoint string) ([]*models.Term, error) {
	reqURL := strings.TrimRight(serviceURL(), "/") + "/" + termsclient.APIVersion + endpoint
	data, err := newTransport().SendGetRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var records []wireTerm
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	terms := make([]*models.Term, len(records))
	for i, r := range records {
		createdAt, _ := time.Parse(time.RFC3339, r.CreatedOn)
		terms[i] = &models.Term{
			Name:      r.Name,
			Owner:     r.Owner,
			Title:     r.Title,
			Revision:  r.Revision,
			Content:   r.Content,
			CreatedAt: createdAt,
		}
	}
	return terms, nil
}

// formatTerm renders a single document with its full content.
func formatTerm(term *models.Term) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (revision %d)\n", term.Name, term.Revision)
	if term.Title != "" {
		fmt.Fprintf(&sb, "Title:   %s\n", term.Title)
	}
	if term.Owner != "" {
		fmt.Fprintf(&sb, "Owner:   %s\n", term.Owner)
	}
	if !term.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Created: %s\n", term.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	sb.WriteString("\n")
	sb.WriteString(term.Content)
	if !strings.HasSuffix(term.Content, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

// printTermTable renders one line per document.
func printTermTable(terms []*models.Term) {
	for _, t := range terms {
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.Format("2006-01-02")
		}
		fmt.Printf("%-24s revision %-4d %-12s %s\n", t.Name, t.Revision, created, t.Title)
	}
}
