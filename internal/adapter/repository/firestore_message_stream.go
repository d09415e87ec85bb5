package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
	"tallerhub/pkg/logger"
)

type firestoreMessageStream struct {
	client *firestore.Client
}

func NewFirestoreMessageStream(client *firestore.Client) repository.MessageStream {
	return &firestoreMessageStream{
		client: client,
	}
}

// Listen watches every messages subcollection under jobChats and invokes
// handler once per newly added document. The first snapshot carries the
// whole existing backlog, so it is used only as a baseline: skipping it
// keeps a process restart from re-notifying historical messages.
func (s *firestoreMessageStream) Listen(ctx context.Context, handler func(ctx context.Context, event repository.MessageCreatedEvent)) error {
	snapshots := s.client.CollectionGroup("messages").Snapshots(ctx)
	defer snapshots.Stop()

	baseline := true
	for {
		snap, err := snapshots.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Internal("Message snapshot stream failed", err)
		}

		if baseline {
			baseline = false
			continue
		}

		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}

			event, ok := s.toEvent(change.Doc)
			if !ok {
				continue
			}
			handler(ctx, event)
		}
	}
}

func (s *firestoreMessageStream) toEvent(doc *firestore.DocumentSnapshot) (repository.MessageCreatedEvent, bool) {
	// Expected path: jobChats/{workOrderID}/channels/{channelID}/messages/{messageID}
	channelRef := doc.Ref.Parent.Parent
	if channelRef == nil {
		return repository.MessageCreatedEvent{}, false
	}
	chatRef := channelRef.Parent.Parent
	if chatRef == nil || chatRef.Parent.ID != "jobChats" {
		// A messages collection that is not part of the chat tree
		return repository.MessageCreatedEvent{}, false
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		logger.Warn("Skipping unparseable message %s: %v", doc.Ref.ID, err)
		return repository.MessageCreatedEvent{}, false
	}
	message.ID = doc.Ref.ID

	return repository.MessageCreatedEvent{
		WorkOrderID: chatRef.ID,
		ChannelID:   channelRef.ID,
		MessageID:   doc.Ref.ID,
		Message:     &message,
	}, true
}
