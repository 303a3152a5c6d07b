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

func (rt *Router) projectRouter(r fiber.Router) {
	projectGroup := r.Group("/projects")
	{
		projectGroup.Get("", rt.listProjects)
		projectGroup.Post("", rt.createProject)
		projectGroup.Get("/:projectId", rt.getProject)
		projectGroup.Patch("/:projectId", rt.updateProject)
		projectGroup.Delete("/:projectId", rt.deleteProject)

		// members
		projectGroup.Get("/:projectId/members", rt.listMembers)
		projectGroup.Post("/:projectId/members", rt.addMember)
		projectGroup.Patch("/:projectId/members/:memberId", rt.updateMemberRole)
		projectGroup.Delete("/:projectId/members/:memberId", rt.removeMember)

		// invitations
		projectGroup.Get("/:projectId/invitations", rt.listProjectInvitations)
		projectGroup.Post("/:projectId/invitations", rt.createInvitation)
	}
}

func (rt *Router) listProjects(c *fiber.Ctx) error {
	result, err := rt.Services.Project.ListProjects(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) createProject(c *fiber.Ctx) error {
	var req service.CreateProjectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Project.CreateProject(c.UserContext(), identity(c), &req)
	if err != nil {
		return err
	}
	return created(c, result)
}

func (rt *Router) getProject(c *fiber.Ctx) error {
	result, err := rt.Services.Project.GetProject(c.UserContext(), identity(c), c.Params("projectId"))
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) updateProject(c *fiber.Ctx) error {
	var req service.UpdateProjectReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Project.UpdateProject(c.UserContext(), identity(c), c.Params("projectId"), &req)
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) deleteProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")
	if err := rt.Services.Project.DeleteProject(c.UserContext(), identity(c), projectId); err != nil {
		return err
	}
	return operation(c, projectId)
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	result, err := rt.Services.Member.ListMembers(c.UserContext(), identity(c), c.Params("projectId"))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) addMember(c *fiber.Ctx) error {
	var req service.AddMemberReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Member.AddMember(c.UserContext(), identity(c), c.Params("projectId"), &req)
	if err != nil {
		return err
	}
	return created(c, result)
}

type updateRoleReq struct {
	Role string `json:"role"`
}

func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	var req updateRoleReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Member.UpdateMemberRole(c.UserContext(), identity(c), c.Params("projectId"), c.Params("memberId"), req.Role)
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	memberId := c.Params("memberId")
	if err := rt.Services.Member.RemoveMember(c.UserContext(), identity(c), c.Params("projectId"), memberId); err != nil {
		return err
	}
	return operation(c, memberId)
}

func (rt *Router) listProjectInvitations(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.ListProjectInvitations(c.UserContext(), identity(c), c.Params("projectId"))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) createInvitation(c *fiber.Ctx) error {
	var req service.CreateInvitationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Invitation.CreateInvitation(c.UserContext(), identity(c), c.Params("projectId"), &req)
	if err != nil {
		return err
	}
	return created(c, result)
}
