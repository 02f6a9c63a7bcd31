package server

import (
	"net/http"
	"strconv"

	"github.com/emrgen/transmem/internal/service"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func registerRoutes(router *gin.Engine, projects *service.ProjectService, files *service.FileService, segments *service.SegmentService, tms *service.TMService) {
	v1 := router.Group("/v1")

	v1.POST("/projects", func(c *gin.Context) {
		var request service.CreateProjectRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, http.StatusCreated)(projects.Create(c.Request.Context(), &request))
	})

	v1.GET("/projects", func(c *gin.Context) {
		respond(c, http.StatusOK)(projects.List(c.Request.Context()))
	})

	v1.GET("/projects/:id", func(c *gin.Context) {
		respond(c, http.StatusOK)(projects.Get(c.Request.Context(), c.Param("id")))
	})

	v1.DELETE("/projects/:id", func(c *gin.Context) {
		respondErr(c, projects.Delete(c.Request.Context(), c.Param("id")))
	})

	v1.PUT("/projects/:id/prompt", func(c *gin.Context) {
		var request struct {
			Prompt string `json:"prompt"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, http.StatusOK)(projects.UpdatePrompt(c.Request.Context(), c.Param("id"), request.Prompt))
	})

	v1.POST("/projects/:id/files", func(c *gin.Context) {
		var request struct {
			Path    string                 `json:"path"`
			Options service.AddFileOptions `json:"options"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, http.StatusCreated)(files.AddToProject(c.Request.Context(), c.Param("id"), request.Path, request.Options))
	})

	v1.GET("/projects/:id/files", func(c *gin.Context) {
		respond(c, http.StatusOK)(files.List(c.Request.Context(), c.Param("id")))
	})

	v1.GET("/files/:id", func(c *gin.Context) {
		respond(c, http.StatusOK)(files.Get(c.Request.Context(), c.Param("id")))
	})

	v1.DELETE("/files/:id", func(c *gin.Context) {
		respondErr(c, files.Delete(c.Request.Context(), c.Param("id")))
	})

	v1.GET("/files/:id/segments", func(c *gin.Context) {
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		views, total, err := files.GetSegmentsPage(c.Request.Context(), c.Param("id"), offset, limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"segments": views, "total": total})
	})

	v1.POST("/files/:id/export", func(c *gin.Context) {
		var request struct {
			OutputPath string                `json:"outputPath"`
			Options    service.ExportOptions `json:"options"`
			Force      bool                  `json:"force"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondErr(c, files.Export(c.Request.Context(), c.Param("id"), request.OutputPath, request.Options, request.Force))
	})

	v1.PUT("/segments/:id/target", func(c *gin.Context) {
		var request service.UpdateTargetRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		request.SegmentID = c.Param("id")
		respond(c, http.StatusOK)(segments.UpdateTarget(c.Request.Context(), &request))
	})

	v1.GET("/segments/:id", func(c *gin.Context) {
		respond(c, http.StatusOK)(segments.Get(c.Request.Context(), c.Param("id")))
	})

	v1.GET("/tms", func(c *gin.Context) {
		respond(c, http.StatusOK)(tms.List(c.Request.Context()))
	})

	v1.POST("/tms", func(c *gin.Context) {
		var request service.CreateTMRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, http.StatusCreated)(tms.Create(c.Request.Context(), &request))
	})

	v1.GET("/tms/:id", func(c *gin.Context) {
		respond(c, http.StatusOK)(tms.Get(c.Request.Context(), c.Param("id")))
	})

	v1.DELETE("/tms/:id", func(c *gin.Context) {
		respondErr(c, tms.Delete(c.Request.Context(), c.Param("id")))
	})

	v1.GET("/projects/:id/mounts", func(c *gin.Context) {
		respond(c, http.StatusOK)(tms.ListMounts(c.Request.Context(), c.Param("id")))
	})

	v1.POST("/projects/:id/mounts", func(c *gin.Context) {
		var request struct {
			TMID       string `json:"tmId"`
			Priority   int    `json:"priority"`
			Permission string `json:"permission"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, http.StatusCreated)(tms.Mount(c.Request.Context(), c.Param("id"), request.TMID, request.Priority, request.Permission))
	})

	v1.DELETE("/projects/:id/mounts/:tmId", func(c *gin.Context) {
		respondErr(c, tms.Unmount(c.Request.Context(), c.Param("id"), c.Param("tmId")))
	})

	v1.GET("/projects/:id/match100", func(c *gin.Context) {
		respond(c, http.StatusOK)(tms.Get100Match(c.Request.Context(), c.Param("id"), c.Query("hash")))
	})

	v1.GET("/projects/:id/matches", func(c *gin.Context) {
		respond(c, http.StatusOK)(tms.GetMatches(c.Request.Context(), c.Param("id"), c.Query("segmentId")))
	})

	v1.GET("/projects/:id/concordance", func(c *gin.Context) {
		respond(c, http.StatusOK)(tms.Concordance(c.Request.Context(), c.Param("id"), c.Query("q")))
	})

	// off the /tms subtree, a static "import" segment cannot share the level
	// with the :id wildcard
	v1.POST("/tmx/preview", func(c *gin.Context) {
		var request struct {
			Path string `json:"path"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respond(c, http.StatusOK)(tms.ImportPreview(c.Request.Context(), request.Path))
	})

	v1.POST("/tms/:id/import", func(c *gin.Context) {
		var request struct {
			Path    string                `json:"path"`
			Options service.ImportOptions `json:"options"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		inserted, err := tms.ImportExecute(c.Request.Context(), c.Param("id"), request.Path, request.Options)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"inserted": inserted})
	})

	v1.POST("/tms/:id/commit", func(c *gin.Context) {
		var request struct {
			FileID string `json:"fileId"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		committed, err := tms.CommitToMain(c.Request.Context(), c.Param("id"), request.FileID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"committed": committed})
	})

	v1.POST("/tms/:id/export", func(c *gin.Context) {
		var request struct {
			Path string `json:"path"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondErr(c, tms.ExportTM(c.Request.Context(), c.Param("id"), request.Path))
	})
}

func respond(c *gin.Context, code int) func(v any, err error) {
	return func(v any, err error) {
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(code, v)
	}
}

func respondErr(c *gin.Context, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// fail maps the engine's error taxonomy to HTTP so the UI can distinguish
// "fix your input" from "transient storage issue".
func fail(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	code := http.StatusInternalServerError
	switch st.Code() {
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.PermissionDenied:
		code = http.StatusForbidden
	case codes.AlreadyExists:
		code = http.StatusConflict
	case codes.FailedPrecondition:
		code = http.StatusPreconditionFailed
	}

	c.JSON(code, gin.H{"error": st.Message(), "code": st.Code().String()})
}
