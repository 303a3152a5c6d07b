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

func (rt *Router) mediaRouter(r fiber.Router) {
	mediaGroup := r.Group("/media")
	{
		mediaGroup.Get("", rt.listMediaFiles)
		mediaGroup.Post("", rt.registerMediaFile)
		mediaGroup.Post("/upload-url", rt.createUploadURL)
		mediaGroup.Get("/:fileId", rt.getMediaFile)
		mediaGroup.Delete("/:fileId", rt.deleteMediaFile)
	}
}

func (rt *Router) listMediaFiles(c *fiber.Ctx) error {
	result, err := rt.Services.Media.ListMediaFiles(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return list(c, result)
}

func (rt *Router) registerMediaFile(c *fiber.Ctx) error {
	var req service.RegisterMediaReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Media.RegisterMediaFile(c.UserContext(), identity(c), &req)
	if err != nil {
		return err
	}
	return created(c, result)
}

func (rt *Router) createUploadURL(c *fiber.Ctx) error {
	var req service.UploadURLReq
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := rt.Services.Media.CreateUploadURL(c.UserContext(), identity(c), &req)
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) getMediaFile(c *fiber.Ctx) error {
	result, err := rt.Services.Media.GetMediaFile(c.UserContext(), identity(c), c.Params("fileId"))
	if err != nil {
		return err
	}
	return detail(c, result)
}

func (rt *Router) deleteMediaFile(c *fiber.Ctx) error {
	fileId := c.Params("fileId")
	if err := rt.Services.Media.DeleteMediaFile(c.UserContext(), identity(c), fileId); err != nil {
		return err
	}
	return operation(c, fileId)
}
