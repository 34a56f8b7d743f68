package core

import (
	"time"
)

// NotificationTopic names what a notification is about.
type NotificationTopic string

const (
	TopicItemRequested     NotificationTopic = "item_requested"
	TopicTransferConfirmed NotificationTopic = "transfer_confirmed"
	TopicItemHandedOver    NotificationTopic = "item_handed_over"
	TopicRequestRejected   NotificationTopic = "request_rejected"
	TopicRecallRequested   NotificationTopic = "recall_requested"
	TopicRecallCanceled    NotificationTopic = "recall_canceled"
	TopicReturnInitiated   NotificationTopic = "return_initiated"
	TopicReturnConfirmed   NotificationTopic = "return_confirmed"
	TopicYourTurn          NotificationTopic = "your_turn"
	TopicWaitlistJoined    NotificationTopic = "waitlist_joined"
	TopicItemRemoved       NotificationTopic = "item_removed"
	TopicMemberRegistered  NotificationTopic = "member_registered"
	TopicMembershipChanged NotificationTopic = "membership_changed"
)

// Notification is a best-effort message to one member.
type Notification struct {
	RecipientID MemberIDString
	Topic       NotificationTopic
	ItemID      ItemIDString
	ItemTitle   string
	ActorID     MemberIDString
	OccurredAt  time.Time
}

// NotificationsFor computes who must be told about an applied event, from the snapshot taken before it.
func NotificationsFor(before ItemSnapshot, event DomainEvent) []Notification {
	title := before.Item.Metadata.Title

	n := func(recipient MemberIDString, topic NotificationTopic, actor MemberIDString) Notification {
		return Notification{
			RecipientID: recipient,
			Topic:       topic,
			ItemID:      event.AffectsItem(),
			ItemTitle:   title,
			ActorID:     actor,
			OccurredAt:  event.HasOccurredAt(),
		}
	}

	var notifications []Notification

	switch e := event.(type) {
	case ItemRequested:
		notifications = append(notifications, n(e.OwnerID, TopicItemRequested, e.RequesterID))

	case TransferConfirmed:
		notifications = append(notifications, n(e.ToMemberID, TopicTransferConfirmed, e.FromMemberID))
		if e.IsHandover {
			notifications = append(notifications, n(e.OwnerID, TopicItemHandedOver, e.FromMemberID))
		}

	case RequestRejected:
		notifications = append(notifications, n(e.RequesterID, TopicRequestRejected, e.OwnerID))

	case RecallRequested:
		notifications = append(notifications, n(e.HolderID, TopicRecallRequested, e.OwnerID))

	case RecallCanceled:
		notifications = append(notifications, n(e.HolderID, TopicRecallCanceled, e.OwnerID))

	case ReturnInitiated:
		notifications = append(notifications, n(e.OwnerID, TopicReturnInitiated, e.HolderID))

	case ReturnConfirmed:
		notifications = append(notifications, n(e.HolderID, TopicReturnConfirmed, e.OwnerID))
		if e.NextCandidateID != "" {
			notifications = append(notifications, n(e.NextCandidateID, TopicYourTurn, e.OwnerID))
		}

	case TurnSkipped:
		if e.NextCandidateID != "" {
			notifications = append(notifications, n(e.NextCandidateID, TopicYourTurn, e.MemberID))
		}

	case WaitlistJoined:
		notifications = append(notifications, n(e.OwnerID, TopicWaitlistJoined, e.MemberID))
		if e.HolderID != "" {
			notifications = append(notifications, n(e.HolderID, TopicWaitlistJoined, e.MemberID))
		}

	case ItemRemoved:
		if e.RemovedBy != e.OwnerID {
			notifications = append(notifications, n(e.OwnerID, TopicItemRemoved, e.RemovedBy))
		}

		for _, entry := range before.Waitlist {
			notifications = append(notifications, n(entry.MemberID, TopicItemRemoved, e.RemovedBy))
		}

		for _, b := range before.PendingBookings {
			if !before.IsQueued(b.RequesterID) {
				notifications = append(notifications, n(b.RequesterID, TopicItemRemoved, e.RemovedBy))
			}
		}
	}

	return notifications
}
