package handlers

import (
	"net/http"
	"strconv"

	"github.com/customeros/mailsherpa/mailvalidate"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	custom_err "github.com/inboxbridge/inboxbridge/api/errors"
	"github.com/inboxbridge/inboxbridge/config"
	"github.com/inboxbridge/inboxbridge/interfaces"
	er "github.com/inboxbridge/inboxbridge/internal/errors"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type SendReplyRequest struct {
	ID   uint32 `json:"id"`
	Text string `json:"text"`
}

// GetEmails lists one page of a folder, newest first.
func GetEmails(mailbox interfaces.MailboxService, cfg *config.MailConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "GetEmails", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		requested := c.DefaultQuery("folder", cfg.DefaultFolder)
		page := intQuery(c, "page", 1)
		pageSize := intQuery(c, "perPage", cfg.DefaultPageSize)

		folder, err := mailbox.ResolveFolder(ctx, requested)
		if err != nil {
			tracing.TraceErr(span, err)
			if errors.Is(err, er.ErrFolderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": "Folder not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch emails",
			})
			return
		}

		result, err := mailbox.ListPage(ctx, folder, page, pageSize)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch emails",
			})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// SendEmail composes and sends a new outbound message.
func SendEmail(emailService interfaces.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "SendEmail", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		request, errs := validateSendEmailRequest(c)
		if errs != nil {
			tracing.TraceErr(span, errs)
			c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error()})
			return
		}

		err := emailService.Send(ctx, interfaces.SendEmailRequest{
			To:      request.To,
			Subject: request.Subject,
			Body:    request.Message,
		})
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to send email",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Email sent",
		})
	}
}

// SendReply replies to an existing message in the session's selected folder.
func SendReply(emailService interfaces.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "SendReply", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request SendReplyRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid request payload"})
			return
		}

		if err := emailService.Reply(ctx, request.ID, request.Text); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to send reply",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Reply sent",
		})
	}
}

func validateSendEmailRequest(c *gin.Context) (SendEmailRequest, *custom_err.MultiErrors) {
	errs := custom_err.NewMultiErrors()

	var request SendEmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		errs.Add("request", "please provide a valid request payload", errors.New("cannot parse request"))
		return request, errs
	}

	if request.To == "" {
		errs.Add("to", "please provide a recipient address", errors.New("to is empty"))
	} else if validation := mailvalidate.ValidateEmailSyntax(request.To); !validation.IsValid {
		errs.Add("to", "please provide a valid recipient address", errors.New("to is not a valid address"))
	}
	if request.Subject == "" {
		errs.Add("subject", "please provide an email subject", errors.New("subject is empty"))
	}
	if request.Message == "" {
		errs.Add("message", "please provide an email body", errors.New("message is empty"))
	}

	if errs.HasErrors() {
		return request, errs
	}
	return request, nil
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return defaultValue
	}
	return value
}
