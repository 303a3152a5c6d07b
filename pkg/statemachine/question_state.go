// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

type QuestionStatus string

const (
	QuestionNew             QuestionStatus = "NEW"
	QuestionInProgress      QuestionStatus = "IN_PROGRESS"
	QuestionPendingApproval QuestionStatus = "PENDING_APPROVAL"
	QuestionClosed          QuestionStatus = "CLOSED"
)

// IsClosed reports whether the question is frozen.
func (qs QuestionStatus) IsClosed() bool {
	return qs == QuestionClosed
}

// AcceptsAnswerTransition reports whether posting an answer moves the
// question to PENDING_APPROVAL.
func (qs QuestionStatus) AcceptsAnswerTransition() bool {
	return qs == QuestionNew || qs == QuestionInProgress
}

// NewQuestionStateMachine builds the question status table.
func NewQuestionStateMachine() *StateMachine[QuestionStatus] {
	sm := New[QuestionStatus]()

	sm.Allow(QuestionNew, QuestionInProgress, QuestionPendingApproval, QuestionClosed).
		Allow(QuestionInProgress, QuestionPendingApproval, QuestionClosed).
		Allow(QuestionPendingApproval, QuestionInProgress, QuestionClosed).
		Allow(QuestionClosed)

	return sm
}
