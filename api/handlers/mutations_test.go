package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAsRead(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mailbox := &stubMailboxService{}
	router := gin.New()
	router.POST("/mark-as-read", MarkAsRead(mailbox))

	w := performRequest(router, http.MethodPost, "/mark-as-read", `{"id":12}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint32{12}, mailbox.markedRead)
}

func TestMarkAsUnread(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mailbox := &stubMailboxService{}
	router := gin.New()
	router.POST("/mark-as-unread", MarkAsUnread(mailbox))

	w := performRequest(router, http.MethodPost, "/mark-as-unread", `{"id":12}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint32{12}, mailbox.markedUnread)
}

func TestMarkAsRead_InvalidPayloadIs400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mailbox := &stubMailboxService{}
	router := gin.New()
	router.POST("/mark-as-read", MarkAsRead(mailbox))

	w := performRequest(router, http.MethodPost, "/mark-as-read", `{"id":"twelve"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mailbox.markedRead)
}

func TestMoveToFolder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mailbox := &stubMailboxService{}
	router := gin.New()
	router.POST("/move-to-folder", MoveToFolder(mailbox))

	w := performRequest(router, http.MethodPost, "/move-to-folder",
		`{"id":3,"sourceFolder":"INBOX","folder":"Archive"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mailbox.moved, 1)
	assert.Equal(t, uint32(3), mailbox.moved[0][0])
	assert.Equal(t, "INBOX", mailbox.moved[0][1])
	assert.Equal(t, "Archive", mailbox.moved[0][2])
}

func TestDeleteEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mailbox := &stubMailboxService{}
	router := gin.New()
	router.POST("/delete-email", DeleteEmail(mailbox))

	w := performRequest(router, http.MethodPost, "/delete-email", `{"id":9}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint32{9}, mailbox.deleted)
}

func TestDeleteEmail_ServiceFailureIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mailbox := &stubMailboxService{mutationErr: errors.New("mailbox unavailable")}
	router := gin.New()
	router.POST("/delete-email", DeleteEmail(mailbox))

	w := performRequest(router, http.MethodPost, "/delete-email", `{"id":9}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
