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
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) invitationRouter(r fiber.Router) {
	invitationGroup := r.Group("/invitations")
	{
		invitationGroup.Get("", rt.listMyInvitations)
		invitationGroup.Post("/:token/accept", rt.acceptInvitation)
		invitationGroup.Post("/:token/decline", rt.declineInvitation)
	}
}

func (rt *Router) listMyInvitations(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.ListMyInvitations(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	result, err := rt.Services.Invitation.AcceptInvitation(c.UserContext(), identity(c), c.Params("token"))
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) declineInvitation(c *fiber.Ctx) error {
	token := c.Params("token")
	if err := rt.Services.Invitation.DeclineInvitation(c.UserContext(), identity(c), token); err != nil {
		return err
	}
	return operation(c, token)
}
