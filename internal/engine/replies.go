package engine

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-router/internal/domain"
	"github.com/spec-kit/support-router/internal/faq"
)

// Menu labels. Inbound text matching one of these is treated as a semantic
// selection, anything else as free-form content.
const (
	labelFAQ        = "FAQ"
	labelContact    = "Contact department"
	labelSupport    = "Technical support"
	labelSales      = "Sales"
	labelBack       = "Back"
	labelCancel     = "Cancel"
	faqCallbackPref = "faq:"
)

const (
	welcomeMessage = "Welcome to the store support service!\n" +
		"Choose an action: FAQ / Contact department"
	departmentPrompt = "Choose a department: Technical support / Sales / Back"
	noAccessMessage  = "No access"
	noActiveMessage  = "No active requests"
	resolveUsage     = "Usage: /resolve <ID>"
	resolveBadID     = "Request id must be a number"
	unknownCommand   = "Unknown command"
	faqNotFound      = "Information not found"
	departmentLost   = "Could not determine the department. Please start over."
	emptyRequest     = "Please enter a non-empty request."
)

var departmentLabels = map[string]domain.Department{
	labelSupport: domain.DepartmentSupport,
	labelSales:   domain.DepartmentSales,
}

var departmentNames = map[domain.Department]string{
	domain.DepartmentSupport: labelSupport,
	domain.DepartmentSales:   labelSales,
}

func requestPrompt(dept domain.Department) string {
	return fmt.Sprintf("Enter your request for %s (or Cancel):", departmentNames[dept])
}

func ticketConfirmation(dept domain.Department) string {
	return fmt.Sprintf("Your request has been sent to %s! Expect a reply.", departmentNames[dept])
}

func resolvePrompt(id int64) string {
	return fmt.Sprintf("Enter the reply for request %d:", id)
}

func ticketClosed(id int64) string {
	return fmt.Sprintf("Request %d closed", id)
}

func ticketMissing(id int64) string {
	return fmt.Sprintf("Request %d not found", id)
}

func faqMenu() string {
	var b strings.Builder
	b.WriteString("Frequently asked questions:\n")
	for _, entry := range faq.Entries() {
		fmt.Fprintf(&b, "- %s (faq:%s)\n", entry.Question, entry.ID)
	}
	return b.String()
}

func faqAnswer(entry faq.Entry) string {
	return fmt.Sprintf("Question: %s\n\nAnswer: %s", entry.Question, entry.Answer)
}

func formatTicketList(tickets []domain.Ticket) string {
	if len(tickets) == 0 {
		return noActiveMessage
	}

	var b strings.Builder
	b.WriteString("Active requests:\n\n")
	for _, t := range tickets {
		fmt.Fprintf(&b, "ID: %d\n", t.ID)
		fmt.Fprintf(&b, "From: %d\n", t.UserID)
		fmt.Fprintf(&b, "Text: %s\n", t.Text)
		fmt.Fprintf(&b, "Department: %s\n", t.Department)
		fmt.Fprintf(&b, "Status: %s\n", t.Status)
		fmt.Fprintf(&b, "Date: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
		b.WriteString("--------------------\n")
	}
	return b.String()
}
