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

package router

import (
	"github.com/go-arcade/askflow/internal/engine/service"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) questionRouter(r fiber.Router) {
	questionGroup := r.Group("/projects/:projectId/questions")
	{
		questionGroup.Get("", rt.listQuestions)
		questionGroup.Post("", rt.createQuestion)
		questionGroup.Get("/:questionId", rt.getQuestion)
		questionGroup.Patch("/:questionId", rt.updateQuestion)
		questionGroup.Delete("/:questionId", rt.deleteQuestion)
		questionGroup.Post("/:questionId/status", rt.changeStatus)

		// answers and form are addressed by question id; the path must
		// still name the question's own project
		questionGroup.Get("/:questionId/answers", rt.questionInProject, rt.listAnswers)
		questionGroup.Post("/:questionId/answers", rt.questionInProject, rt.postAnswer)
		questionGroup.Get("/:questionId/form", rt.questionInProject, rt.getForm)
		questionGroup.Post("/:questionId/form", rt.questionInProject, rt.putForm)
		questionGroup.Put("/:questionId/form", rt.questionInProject, rt.putForm)
		questionGroup.Delete("/:questionId/form", rt.questionInProject, rt.deleteForm)
	}
}

// questionInProject checks access to the project first so outsiders learn
// nothing about its questions.
func (rt *Router) questionInProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")
	if _, err := rt.Services.Authorizer.CanAccessProject(c.UserContext(), identity(c), projectId); err != nil {
		return err
	}
	if err := rt.Services.Question.InProject(c.UserContext(), projectId, c.Params("questionId")); err != nil {
		return err
	}
	return c.Next()
}

func (rt *Router) listQuestions(c *fiber.Ctx) error {
	filter := service.QuestionFilter{
		Status:     c.Query("status"),
		AssigneeId: c.Query("assigneeId"),
	}
	result, err := rt.Services.Question.ListQuestions(c.UserContext(), identity(c), c.Params("projectId"), filter)
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) createQuestion(c *fiber.Ctx) error {
	var req service.CreateQuestionReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Question.CreateQuestion(c.UserContext(), identity(c), c.Params("projectId"), &req)
	if err != nil {
		return err
	}
	return created(c, result)
}

func (rt *Router) getQuestion(c *fiber.Ctx) error {
	result, err := rt.Services.Question.GetQuestion(c.UserContext(), identity(c), c.Params("projectId"), c.Params("questionId"))
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) updateQuestion(c *fiber.Ctx) error {
	var req service.UpdateQuestionReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Question.UpdateQuestion(c.UserContext(), identity(c), c.Params("projectId"), c.Params("questionId"), &req)
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) deleteQuestion(c *fiber.Ctx) error {
	questionId := c.Params("questionId")
	if err := rt.Services.Question.DeleteQuestion(c.UserContext(), identity(c), c.Params("projectId"), questionId); err != nil {
		return err
	}
	return operation(c, questionId)
}

type changeStatusReq struct {
	Status string `json:"status"`
}

func (rt *Router) changeStatus(c *fiber.Ctx) error {
	var req changeStatusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Question.ChangeStatus(c.UserContext(), identity(c), c.Params("projectId"), c.Params("questionId"), req.Status)
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) listAnswers(c *fiber.Ctx) error {
	result, err := rt.Services.Answer.ListAnswers(c.UserContext(), identity(c), c.Params("questionId"))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) postAnswer(c *fiber.Ctx) error {
	var req service.PostAnswerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Answer.PostAnswer(c.UserContext(), identity(c), c.Params("questionId"), &req)
	if err != nil {
		return err
	}
	return created(c, result)
}

func (rt *Router) getForm(c *fiber.Ctx) error {
	result, err := rt.Services.Form.GetForm(c.UserContext(), identity(c), c.Params("questionId"))
	if err != nil {
		return err
	}
	return detail(c, result)
}

type putFormReq struct {
	Fields []service.FieldInput `json:"fields"`
}

func (rt *Router) putForm(c *fiber.Ctx) error {
	var req putFormReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Form.PutForm(c.UserContext(), identity(c), c.Params("questionId"), req.Fields)
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) deleteForm(c *fiber.Ctx) error {
	questionId := c.Params("questionId")
	if err := rt.Services.Form.DeleteForm(c.UserContext(), identity(c), questionId); err != nil {
		return err
	}
	return operation(c, questionId)
}
