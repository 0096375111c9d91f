package services

import "taxpractice/internal/models"

// Allowed status transitions per entity. Terminal states have empty target
// sets; reopening a completed task goes through the explicit Reopen
// operation, never through a plain status write.

var engagementTransitions = map[models.EngagementStatus]map[models.EngagementStatus]bool{
	models.EngagementNew:              {models.EngagementDocumentsPending: true, models.EngagementInProgress: true, models.EngagementCancelled: true},
	models.EngagementDocumentsPending: {models.EngagementInProgress: true, models.EngagementCancelled: true},
	models.EngagementInProgress:       {models.EngagementCompleted: true, models.EngagementDocumentsPending: true, models.EngagementCancelled: true},
	models.EngagementCompleted:        {},
	models.EngagementCancelled:        {},
}

var returnTransitions = map[models.ReturnStatus]map[models.ReturnStatus]bool{
	models.ReturnNew:              {models.ReturnDocumentsPending: true, models.ReturnPreparation: true, models.ReturnOnHold: true},
	models.ReturnDocumentsPending: {models.ReturnPreparation: true, models.ReturnOnHold: true},
	models.ReturnPreparation:      {models.ReturnReview: true, models.ReturnDocumentsPending: true, models.ReturnOnHold: true},
	models.ReturnReview:           {models.ReturnReadyToFile: true, models.ReturnPreparation: true, models.ReturnOnHold: true},
	models.ReturnReadyToFile:      {models.ReturnFiled: true, models.ReturnReview: true, models.ReturnOnHold: true},
	models.ReturnFiled:            {models.ReturnAccepted: true, models.ReturnOnHold: true},
	models.ReturnAccepted:         {models.ReturnCompleted: true, models.ReturnOnHold: true},
	models.ReturnCompleted:        {},
	// Resume from hold to any working state.
	models.ReturnOnHold: {
		models.ReturnNew: true, models.ReturnDocumentsPending: true, models.ReturnPreparation: true,
		models.ReturnReview: true, models.ReturnReadyToFile: true, models.ReturnFiled: true,
		models.ReturnAccepted: true,
	},
}

var taskTransitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.TaskPending:    {models.TaskInProgress: true, models.TaskCompleted: true, models.TaskCancelled: true},
	models.TaskInProgress: {models.TaskCompleted: true, models.TaskCancelled: true, models.TaskPending: true},
	models.TaskCompleted:  {},
	models.TaskCancelled:  {},
}

var noticeTransitions = map[models.NoticeStatus]map[models.NoticeStatus]bool{
	models.NoticeReceived:   {models.NoticeInProgress: true, models.NoticeEscalated: true},
	models.NoticeInProgress: {models.NoticeDrafted: true, models.NoticeEscalated: true},
	models.NoticeDrafted:    {models.NoticeSent: true, models.NoticeInProgress: true, models.NoticeEscalated: true},
	models.NoticeSent:       {models.NoticeClosed: true, models.NoticeInProgress: true},
	models.NoticeEscalated:  {models.NoticeInProgress: true, models.NoticeClosed: true},
	models.NoticeClosed:     {},
}

var communicationTransitions = map[models.CommStatus]map[models.CommStatus]bool{
	models.CommDraft:     {models.CommSent: true, models.CommFailed: true},
	models.CommSent:      {models.CommDelivered: true, models.CommFailed: true},
	models.CommDelivered: {models.CommRead: true},
	models.CommFailed:    {models.CommSent: true},
	models.CommRead:      {},
}

func checkTransition[S ~string](entity string, table map[S]map[S]bool, from, to S) error {
	if _, ok := table[to]; !ok {
		return &models.TransitionError{
			Kind: models.InvalidTarget, Entity: entity,
			From: string(from), To: string(to),
			Reason: "unknown status " + string(to),
		}
	}
	if !table[from][to] {
		return &models.TransitionError{
			Kind: models.IllegalTransition, Entity: entity,
			From: string(from), To: string(to),
		}
	}
	return nil
}

func CheckEngagementTransition(from, to models.EngagementStatus) error {
	return checkTransition("engagement", engagementTransitions, from, to)
}

func CheckReturnTransition(from, to models.ReturnStatus) error {
	return checkTransition("tax_return", returnTransitions, from, to)
}

func CheckTaskTransition(from, to models.TaskStatus) error {
	return checkTransition("task", taskTransitions, from, to)
}

func CheckNoticeTransition(from, to models.NoticeStatus) error {
	return checkTransition("irs_notice", noticeTransitions, from, to)
}

func CheckCommunicationTransition(from, to models.CommStatus) error {
	return checkTransition("communication", communicationTransitions, from, to)
}

// ValidReturnStatus reports whether s is in the closed return-status set.
func ValidReturnStatus(s models.ReturnStatus) bool {
	_, ok := returnTransitions[s]
	return ok
}

// ValidTaskStatus reports whether s is in the closed task-status set.
func ValidTaskStatus(s models.TaskStatus) bool {
	_, ok := taskTransitions[s]
	return ok
}
