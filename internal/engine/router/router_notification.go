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

func (rt *Router) notificationRouter(r fiber.Router) {
	notificationGroup := r.Group("/notifications")
	{
		notificationGroup.Get("", rt.listNotifications)
		notificationGroup.Post("/read-all", rt.markAllNotificationsRead)
		notificationGroup.Post("/:notificationId/read", rt.markNotificationRead)
	}
}

func (rt *Router) listNotifications(c *fiber.Ctx) error {
	result, err := rt.Services.Notification.ListNotifications(c.UserContext(), identity(c), c.QueryBool("unread"))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) markNotificationRead(c *fiber.Ctx) error {
	notificationId := c.Params("notificationId")
	if err := rt.Services.Notification.MarkRead(c.UserContext(), identity(c), notificationId); err != nil {
		return err
	}
	return operation(c, notificationId)
}

func (rt *Router) markAllNotificationsRead(c *fiber.Ctx) error {
	n, err := rt.Services.Notification.MarkAllRead(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return detail(c, fiber.Map{"updated": n})
}
