package service

import (
	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/view"
)

// Per-item element id prefixes.
const (
	certRemarkPrefix     = "cert_remark_"
	assignmentFilePrefix = "assignment_file_"
	remarksPrefix        = "remarks_"
)

// ItemClass wraps each rendered list entry.
const ItemClass = "submission"

func emphasis(text string) view.Node {
	return view.Em(text)
}

func markItems(marks models.Marks) []view.Node {
	items := make([]view.Node, 0, len(marks))
	for _, m := range marks {
		items = append(items, view.Item(m.Subject+": "+string(m.Mark)))
	}
	return items
}

func orDefault(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func studentCertificateNode(c models.Certificate) view.Node {
	return view.Div(ItemClass,
		view.Strong(fileName(c.FilePath)),
		view.Text(" — "),
		view.Span("", "status-"+string(c.Status), string(c.Status)),
		view.Break(),
		view.Text("Remarks: "+orDefault(c.Remarks, "—")),
		view.Break(),
		view.Link(c.FilePath, "Download"),
	)
}

func pendingCertificateNode(c models.Certificate) view.Node {
	return view.Div(ItemClass,
		view.Strong(fileName(c.FilePath)),
		view.Text(" — "),
		view.Bold(c.StudentUsername),
		view.Break(),
		view.Link(c.FilePath, "Download"),
		view.Break(),
		view.TextArea(view.ItemID(certRemarkPrefix, c.ID), "Add remarks (optional)"),
		view.Break(),
		view.Button(itemKey("certificate", c.ID, string(models.CertificateApproved)), "Approve"),
		view.Button(itemKey("certificate", c.ID, string(models.CertificateRejected)), "Reject"),
	)
}

func studentAssignmentNode(a models.Assignment) view.Node {
	return view.Div(ItemClass,
		view.Heading(a.Name),
		view.Paragraph(view.Text(a.Details)),
		view.FileInput(view.ItemID(assignmentFilePrefix, a.ID)),
		view.Button(itemKey("assignment", a.ID, "submit"), "Submit File"),
	)
}

func submissionNode(sub models.Submission) view.Node {
	return view.Div(ItemClass,
		view.Strong("Assignment: "+sub.AssignmentName),
		view.Break(),
		view.Bold("Student: "+sub.StudentUsername),
		view.Break(),
		view.Paragraph(view.Text("File: "), view.Link(sub.FilePath, "Download File")),
		view.Paragraph(
			view.Text("Remarks: "),
			view.Span(view.ItemID(remarksPrefix, sub.ID), "", orDefault(sub.Remarks, "(No remarks yet)")),
		),
		view.Button(itemKey("submission", sub.ID, "remarks"), "Add/Edit Remarks"),
	)
}
