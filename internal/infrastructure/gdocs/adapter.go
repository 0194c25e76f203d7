package gdocs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/fohr/contracts-backend/internal/domain/shared"
)

const (
	docxMimeType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	googleDocMimeType = "application/vnd.google-apps.document"
	pdfMimeType       = "application/pdf"
)

// Adapter generates contract documents in Google Drive: it imports a
// DOCX template, converts it to a native Doc, normalizes its styling,
// shares it, and exports it to PDF when the contract is ready to sign.
type Adapter struct {
	config *Config
	drive  *drive.Service
	docs   *docs.Service
	http   *http.Client
	logger *zap.Logger
}

// NewAdapter creates a new Google Drive/Docs adapter authenticated
// with the configured service account. Both services share one token
// source so the key file is read and validated once.
func NewAdapter(ctx context.Context, config *Config, logger *zap.Logger) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	keyJSON, err := os.ReadFile(config.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gdocs: read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, keyJSON, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("gdocs: parse credentials: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("gdocs: create drive service: %w", err)
	}

	docsSvc, err := docs.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("gdocs: create docs service: %w", err)
	}

	return &Adapter{
		config: config,
		drive:  driveSvc,
		docs:   docsSvc,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

// CreateDocument downloads a DOCX template, imports it into the
// configured Drive folder, converts it to a native Google Doc,
// normalizes margins and typography, and shares it. It returns the
// document ID and its edit URL.
func (a *Adapter) CreateDocument(ctx context.Context, docxURL, participantName string) (string, string, error) {
	body, err := a.download(ctx, docxURL)
	if err != nil {
		return "", "", err
	}
	defer body.Close()

	name := fmt.Sprintf("Contract - %s", participantName)

	uploaded, err := a.drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: docxMimeType,
		Parents:  []string{a.config.FolderID},
	}).Media(body, googleapi.ContentType(docxMimeType)).Context(ctx).Do()
	if err != nil {
		a.logger.Error("Failed to upload contract template",
			zap.String("name", name),
			zap.Error(err))
		return "", "", shared.NewUpstreamError("gdrive", fmt.Errorf("upload template: %w", err))
	}

	converted, err := a.drive.Files.Copy(uploaded.Id, &drive.File{
		Name:     name,
		MimeType: googleDocMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		a.logger.Error("Failed to convert template to Google Doc",
			zap.String("file_id", uploaded.Id),
			zap.Error(err))
		return "", "", shared.NewUpstreamError("gdrive", fmt.Errorf("convert to google doc: %w", err))
	}

	docID := converted.Id

	if err := a.normalizeStyle(ctx, docID); err != nil {
		// Styling is cosmetic; the document is still usable
		a.logger.Warn("Failed to normalize document style",
			zap.String("doc_id", docID),
			zap.Error(err))
	}

	if err := a.SetPermissions(ctx, docID); err != nil {
		return "", "", err
	}

	docURL := fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID)

	a.logger.Info("Created contract document",
		zap.String("doc_id", docID),
		zap.String("name", name))

	return docID, docURL, nil
}

// SetPermissions strips non-owner permissions, grants the configured
// domain writer access, and lets anyone with the link comment.
func (a *Adapter) SetPermissions(ctx context.Context, fileID string) error {
	existing, err := a.drive.Permissions.List(fileID).
		Fields("permissions(id,emailAddress,role)").Context(ctx).Do()
	if err != nil {
		return shared.NewUpstreamError("gdrive", fmt.Errorf("list permissions: %w", err))
	}

	for _, perm := range existing.Permissions {
		if perm.Id == "anyoneWithLink" || perm.Role == "owner" {
			continue
		}
		if err := a.drive.Permissions.Delete(fileID, perm.Id).Context(ctx).Do(); err != nil {
			return shared.NewUpstreamError("gdrive", fmt.Errorf("delete permission %s: %w", perm.Id, err))
		}
	}

	if a.config.ShareDomain != "" {
		_, err = a.drive.Permissions.Create(fileID, &drive.Permission{
			Role:   "writer",
			Type:   "domain",
			Domain: a.config.ShareDomain,
		}).Context(ctx).Do()
		if err != nil {
			return shared.NewUpstreamError("gdrive", fmt.Errorf("grant domain access: %w", err))
		}
	}

	_, err = a.drive.Permissions.Create(fileID, &drive.Permission{
		Role: "commenter",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		return shared.NewUpstreamError("gdrive", fmt.Errorf("grant link access: %w", err))
	}

	return nil
}

// ExportPDF strips the ready-for-review anchor text and exports the
// document as a PDF to outputPath.
func (a *Adapter) ExportPDF(ctx context.Context, docID, outputPath string) error {
	if err := a.RemoveAnchorText(ctx, docID); err != nil {
		return err
	}

	resp, err := a.drive.Files.Export(docID, pdfMimeType).Context(ctx).Download()
	if err != nil {
		a.logger.Error("Failed to export document to PDF",
			zap.String("doc_id", docID),
			zap.Error(err))
		return shared.NewUpstreamError("gdrive", fmt.Errorf("export pdf: %w", err))
	}
	defer resp.Body.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("gdocs: create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("gdocs: write pdf: %w", err)
	}

	a.logger.Info("Exported document to PDF",
		zap.String("doc_id", docID),
		zap.String("path", outputPath))

	return nil
}

// RemoveAnchorText deletes the ready-for-review phrase from the top of
// the document. A document without the phrase is left untouched.
func (a *Adapter) RemoveAnchorText(ctx context.Context, docID string) error {
	document, err := a.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return shared.NewUpstreamError("gdocs", fmt.Errorf("get document: %w", err))
	}

	start, end, found := findAnchorRange(document.Body.Content, a.config.AnchorText, anchorScanLimit)
	if !found {
		a.logger.Debug("Anchor text not present", zap.String("doc_id", docID))
		return nil
	}

	_, err = a.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				DeleteContentRange: &docs.DeleteContentRangeRequest{
					Range: &docs.Range{StartIndex: start, EndIndex: end},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return shared.NewUpstreamError("gdocs", fmt.Errorf("delete anchor text: %w", err))
	}

	return nil
}

// normalizeStyle applies one-inch margins, single spacing, and 10pt
// Arial across the document while preserving bold runs.
func (a *Adapter) normalizeStyle(ctx context.Context, docID string) error {
	document, err := a.docs.Documents.Get(docID).Context(ctx).Do()
	if err != nil {
		return shared.NewUpstreamError("gdocs", fmt.Errorf("get document: %w", err))
	}

	lastIndex := lastContentIndex(document.Body.Content)
	if lastIndex <= 1 {
		return nil
	}

	requests := []*docs.Request{
		{
			UpdateDocumentStyle: &docs.UpdateDocumentStyleRequest{
				DocumentStyle: &docs.DocumentStyle{
					MarginTop:    &docs.Dimension{Magnitude: 72, Unit: "PT"},
					MarginBottom: &docs.Dimension{Magnitude: 72, Unit: "PT"},
					MarginLeft:   &docs.Dimension{Magnitude: 72, Unit: "PT"},
					MarginRight:  &docs.Dimension{Magnitude: 72, Unit: "PT"},
				},
				Fields: "marginTop,marginBottom,marginLeft,marginRight",
			},
		},
		{
			UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range: &docs.Range{StartIndex: 1, EndIndex: lastIndex},
				ParagraphStyle: &docs.ParagraphStyle{
					LineSpacing: 100,
					SpaceAbove:  &docs.Dimension{Unit: "PT"},
					SpaceBelow:  &docs.Dimension{Unit: "PT"},
				},
				Fields: "lineSpacing,spaceAbove,spaceBelow",
			},
		},
		{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range: &docs.Range{StartIndex: 1, EndIndex: lastIndex},
				TextStyle: &docs.TextStyle{
					FontSize: &docs.Dimension{Magnitude: 10, Unit: "PT"},
					WeightedFontFamily: &docs.WeightedFontFamily{
						FontFamily: "Arial",
						Weight:     400,
					},
				},
				Fields: "fontSize,weightedFontFamily",
			},
		},
	}

	// Reapply bold on top of the blanket restyle
	for _, r := range collectBoldRanges(document.Body.Content) {
		requests = append(requests, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range: &docs.Range{StartIndex: r.start, EndIndex: r.end},
				TextStyle: &docs.TextStyle{
					FontSize: &docs.Dimension{Magnitude: 10, Unit: "PT"},
					WeightedFontFamily: &docs.WeightedFontFamily{
						FontFamily: "Arial",
						Weight:     700,
					},
					Bold: true,
				},
				Fields: "fontSize,weightedFontFamily,bold",
			},
		})
	}

	_, err = a.docs.Documents.BatchUpdate(docID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return shared.NewUpstreamError("gdocs", fmt.Errorf("apply document style: %w", err))
	}

	return nil
}

func (a *Adapter) download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("gdocs: build download request: %w", err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, shared.NewUpstreamError("gdrive", fmt.Errorf("download template: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, shared.NewUpstreamError("gdrive",
			fmt.Errorf("download template: status %d", resp.StatusCode))
	}

	return resp.Body, nil
}
