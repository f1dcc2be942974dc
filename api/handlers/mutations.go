package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inboxbridge/inboxbridge/interfaces"
	"github.com/inboxbridge/inboxbridge/internal/tracing"
)

type MessageIDRequest struct {
	ID uint32 `json:"id"`
}

type MoveToFolderRequest struct {
	ID           uint32 `json:"id"`
	SourceFolder string `json:"sourceFolder"`
	Folder       string `json:"folder"`
}

// MarkAsRead sets the seen flag on a message in the session's selected
// folder.
func MarkAsRead(mailbox interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "MarkAsRead", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request MessageIDRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid request payload"})
			return
		}

		if err := mailbox.MarkRead(ctx, request.ID); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to mark email as read",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Email marked as read",
		})
	}
}

// MarkAsUnread removes the seen flag on a message in the session's selected
// folder.
func MarkAsUnread(mailbox interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "MarkAsUnread", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request MessageIDRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid request payload"})
			return
		}

		if err := mailbox.MarkUnread(ctx, request.ID); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to mark email as unread",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Email marked as unread",
		})
	}
}

// MoveToFolder moves a message between folders.
func MoveToFolder(mailbox interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "MoveToFolder", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request MoveToFolderRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid request payload"})
			return
		}

		if err := mailbox.MoveToFolder(ctx, request.ID, request.SourceFolder, request.Folder); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to move email",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Email moved",
		})
	}
}

// DeleteEmail deletes a message from the trash folder. The success response
// returns before the asynchronous expunge completes.
func DeleteEmail(mailbox interfaces.MailboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartHttpServerTracerSpanWithHeader(c.Request.Context(), "DeleteEmail", c.Request.Header)
		defer span.Finish()
		tracing.TagComponentRest(span)

		var request MessageIDRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a valid request payload"})
			return
		}

		if err := mailbox.DeleteMessage(ctx, request.ID); err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete email",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Email deleted",
		})
	}
}
