package notion

import (
	"context"
	"strconv"
	"time"

	"github.com/jomei/notionapi"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
)

const (
	// FingerprintProperty holds the capture fingerprint on every synced
	// page. It makes remote deduplication auditable by hand.
	FingerprintProperty = "Fingerprint"

	// OriginProperty marks how a page entered the database.
	OriginProperty = "Origin"

	// SourceNoteProperty links a task page back to the note page it was
	// derived from.
	SourceNoteProperty = "Source note"

	systemOriginValue = "System"

	maxRemoteTitleLength = 200
	maxBlockTextLength   = 1900
)

// CreateRecord creates a page for a note and returns the page ID
func (c *client) CreateRecord(ctx context.Context, settings *model.Settings, note *model.Note) (string, error) {
	props := notionapi.Properties{
		settings.PropTitle:  titleProperty(note.Title),
		FingerprintProperty: richTextProperty(note.Fingerprint),
	}
	setSelect(props, settings.PropArea, note.Area)
	setSelect(props, settings.PropType, note.Type)
	setSelect(props, settings.PropState, note.State)
	setSelect(props, settings.PropPriority, note.Priority)

	if due, err := time.Parse("2006-01-02", note.DueDate); err == nil {
		d := notionapi.Date(due)
		props[settings.PropDate] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &d},
		}
	}

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(settings.NotionDatabaseID),
		},
		Properties: props,
		Children:   noteBlocks(note),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create note page",
			goerr.V("noteID", note.ID), goerr.V("fingerprint", note.Fingerprint))
	}
	return page.ID.String(), nil
}

// CreateSubRecord creates a task page derived from one action line of a
// parent note and returns the page ID. The parent's remote ID must already
// be set.
func (c *client) CreateSubRecord(ctx context.Context, settings *model.Settings, actionText string, parent *model.Note) (string, error) {
	props := notionapi.Properties{
		settings.PropTitle: titleProperty(actionText),
		settings.PropType:  selectProperty(model.SubRecordType),
		settings.PropState: selectProperty(model.SubRecordState),
		OriginProperty:     selectProperty(systemOriginValue),
	}
	setSelect(props, settings.PropArea, parent.Area)

	sourceRef := parent.RemoteID
	if sourceRef == "" {
		sourceRef = "note:" + strconv.FormatInt(parent.ID, 10)
	}
	props[SourceNoteProperty] = richTextProperty(sourceRef)

	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(settings.NotionDatabaseID),
		},
		Properties: props,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create task page",
			goerr.V("noteID", parent.ID), goerr.V("action", actionText))
	}
	return page.ID.String(), nil
}

func noteBlocks(note *model.Note) []notionapi.Block {
	var blocks []notionapi.Block
	if note.Summary != "" {
		blocks = append(blocks, headingBlock("Summary"), paragraphBlock(note.Summary))
	}
	if note.ActionsText != "" {
		blocks = append(blocks, headingBlock("Actions"), paragraphBlock(note.ActionsText))
	}
	blocks = append(blocks, headingBlock("Original text"), paragraphBlock(note.RawText))
	return blocks
}

func titleProperty(title string) notionapi.TitleProperty {
	if title == "" {
		title = model.DefaultTitle
	}
	title = model.TruncateRunes(title, maxRemoteTitleLength)
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{
			{Text: &notionapi.Text{Content: title}},
		},
	}
}

func selectProperty(value string) notionapi.SelectProperty {
	return notionapi.SelectProperty{
		Select: notionapi.Option{Name: value},
	}
}

func setSelect(props notionapi.Properties, name, value string) {
	if name == "" || value == "" {
		return
	}
	props[name] = selectProperty(value)
}

func richTextProperty(content string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{Text: &notionapi.Text{Content: content}},
		},
	}
}

func headingBlock(text string) notionapi.Block {
	return &notionapi.Heading3Block{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeHeading3,
		},
		Heading3: notionapi.Heading{
			RichText: []notionapi.RichText{
				{Text: &notionapi.Text{Content: text}},
			},
		},
	}
}

func paragraphBlock(text string) notionapi.Block {
	text = model.TruncateRunes(text, maxBlockTextLength)
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{
			RichText: []notionapi.RichText{
				{Text: &notionapi.Text{Content: text}},
			},
		},
	}
}
