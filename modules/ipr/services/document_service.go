package services

import (
	"context"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/pkg/composables"
	"github.com/iota-uz/ipr/pkg/docx"
	"github.com/iota-uz/ipr/pkg/eventbus"
	"github.com/iota-uz/ipr/pkg/serrors"
)

const DocumentExtension = "docx"

// ErrNotDocument rejects uploads that are not Word documents.
var ErrNotDocument = serrors.NewError("NOT_DOCX", "blob is not a docx document", "IPR.Errors.NotDocx")

var tracer = otel.Tracer("ipr/services")

const (
	titleSize    = 36
	titleSpacing = 300
	bodySize     = 24
	headingAfter = 100
)

type headerField struct {
	labelKey string
	value    func(plan.State) string
}

// headerFields are the labelled lines under the title, in document order.
var headerFields = []headerField{
	{labelKey: plan.KeyEmployeeName, value: plan.State.Name},
	{labelKey: plan.KeyManager, value: plan.State.Manager},
}

type DocumentService struct {
	publisher eventbus.EventBus
	now       func() time.Time
}

// NewDocumentService builds the service. A nil publisher disables export events.
func NewDocumentService(publisher eventbus.EventBus) *DocumentService {
	return &DocumentService{publisher: publisher, now: time.Now}
}

// Build lays out the plan document. It never fails: absent text gives no paragraphs.
func (s *DocumentService) Build(state plan.State, t plan.Translator) docx.Document {
	if t == nil {
		t = plan.IdentityTranslator
	}
	doc := docx.Document{
		Properties: docx.Properties{
			Title:   t(plan.KeyDocumentTitle),
			Creator: state.Manager(),
		},
	}

	doc.Add(docx.Paragraph{
		Style:        docx.StyleTitle,
		SpacingAfter: titleSpacing,
		Runs:         []docx.Run{{Text: t(plan.KeyDocumentTitle), Bold: true, Size: titleSize}},
	})
	for _, field := range headerFields {
		doc.Add(docx.Paragraph{Runs: []docx.Run{
			{Text: t(field.labelKey) + ": ", Bold: true, Size: bodySize},
			{Text: field.value(state), Size: bodySize},
		}})
	}
	doc.Add(docx.Empty())

	for _, section := range plan.Sections {
		goal := state.Goal(section)
		doc.Add(docx.Paragraph{
			Style:        docx.StyleHeading2,
			SpacingAfter: headingAfter,
			Runs:         []docx.Run{{Text: t(section.LocaleKey())}},
		})
		doc.Add(lineParagraphs(goal.Derived)...)
		doc.Add(docx.Empty())
		doc.Add(lineParagraphs(goal.Authored)...)
	}
	return doc
}

func lineParagraphs(text string) []docx.Paragraph {
	lines := plan.SplitLines(text)
	paragraphs := make([]docx.Paragraph, 0, len(lines))
	for _, line := range lines {
		paragraphs = append(paragraphs, docx.NewParagraph(line, false, bodySize))
	}
	return paragraphs
}

// Assemble builds and serializes the plan document. The state is a copy, so
// edits made by the caller afterwards do not reach the document.
func (s *DocumentService) Assemble(ctx context.Context, state plan.State, t plan.Translator) (blob []byte, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "ipr.document.assemble", trace.WithAttributes(
		attribute.String("ipr.target_level", state.TargetLevel().String()),
	))
	defer func() {
		observe(operationAssemble, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := s.Build(state, t)
	doc.Properties.Identifier = uuid.NewString()
	doc.Properties.Created = s.now()

	blob, err = docx.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "serialize plan document")
	}
	span.SetAttributes(attribute.Int("ipr.document.bytes", len(blob)))
	composables.UseLogger(ctx).WithField("bytes", len(blob)).Debug("plan document assembled")
	return blob, nil
}

// RenderPreviewHTML converts a docx blob to an HTML fragment.
func (s *DocumentService) RenderPreviewHTML(ctx context.Context, blob []byte) (out string, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "ipr.document.preview")
	defer func() {
		observe(operationPreview, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if mt := mimetype.Detect(blob); !mt.Is(docx.MimeType) {
		return "", errors.Wrapf(ErrNotDocument, "detected %s", mt.String())
	}
	doc, err := docx.Parse(blob)
	if err != nil {
		return "", errors.Wrap(err, "parse plan document")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err = docx.ToHTML(doc)
	if err != nil {
		return "", errors.Wrap(err, "render preview")
	}
	return out, nil
}

// Preview assembles the document and converts it back to HTML, so the preview
// shows exactly what an export would contain.
func (s *DocumentService) Preview(ctx context.Context, state plan.State, t plan.Translator) (string, error) {
	blob, err := s.Assemble(ctx, state, t)
	if err != nil {
		return "", err
	}
	return s.RenderPreviewHTML(ctx, blob)
}

// Export assembles the document for download and announces it with a
// plan.ExportedEvent. It returns the blob and its file name.
func (s *DocumentService) Export(ctx context.Context, state plan.State, t plan.Translator) ([]byte, string, error) {
	blob, err := s.Assemble(ctx, state, t)
	if err != nil {
		return nil, "", err
	}
	fileName := s.FileName(state)
	if s.publisher != nil {
		s.publisher.Publish(ctx, plan.NewExportedEvent(state, fileName, len(blob), s.now()))
	}
	return blob, fileName, nil
}

// FileName is the download name of the plan document.
func (s *DocumentService) FileName(state plan.State) string {
	return plan.FileName(state.Name(), state.TargetLevel(), DocumentExtension)
}
