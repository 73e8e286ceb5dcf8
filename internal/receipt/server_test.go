package receipt

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/vendhub/receiptd/internal/parsing"
)

var _ = Describe("Server", func() {
	var (
		jobs        *JobStore
		archive     *mockArchive
		extractor   *mockExtractor
		service     *Service
		auth        BasicAuth
		server      *Server
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		jobs = NewJobStore(parsing.NewParser(), 10)
		archive = newMockArchive()
		extractor = newMockExtractor()
		service = NewService(jobs, extractor, archive)
		auth = BasicAuth{}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	postJSON := func(body string) *http.Response {
		resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", "application/json", strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decodeJob := func(resp *http.Response) Job {
		defer resp.Body.Close()
		var job Job
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, &job)).NotTo(HaveOccurred())
		return job
	}

	Describe("handleParse with a JSON body", func() {
		When("text is supplied", func() {
			It("should return status OK", func() {
				resp := postJSON(`{"text": "Bananas $1.99"}`)
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should return a DONE job with the parse result", func() {
				resp := postJSON(`{"text": "Item 1    2    $5.99\nTotal: $11.98"}`)
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				job := decodeJob(resp)
				Expect(job.ID).NotTo(BeEmpty())
				Expect(job.Status).To(Equal(StatusDone))
				Expect(job.Parsed).NotTo(BeNil())
				Expect(job.Parsed.Lines).To(HaveLen(1))
				Expect(job.Parsed.Lines[0].Name).To(Equal("Item 1"))
			})

			It("should set Content-Type to application/json", func() {
				resp := postJSON(`{"text": "Bananas $1.99"}`)
				defer resp.Body.Close()
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
			})
		})

		When("the body is not valid JSON", func() {
			It("should return status Bad Request", func() {
				resp := postJSON(`{"text": `)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring("Invalid request body"))
			})
		})

		When("the text is empty", func() {
			It("should return status Bad Request", func() {
				resp := postJSON(`{"text": ""}`)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring("Either file or text is required"))
			})
		})
	})

	Describe("handleParse with a multipart form", func() {
		buildForm := func(fieldName, filename string, content []byte) (*bytes.Buffer, string) {
			var b bytes.Buffer
			writer := multipart.NewWriter(&b)
			if fieldName == "file" {
				part, err := writer.CreateFormFile("file", filename)
				Expect(err).NotTo(HaveOccurred())
				_, err = part.Write(content)
				Expect(err).NotTo(HaveOccurred())
			} else if fieldName != "" {
				Expect(writer.WriteField(fieldName, string(content))).NotTo(HaveOccurred())
			}
			Expect(writer.Close()).NotTo(HaveOccurred())
			return &b, writer.FormDataContentType()
		}

		When("a file is uploaded", func() {
			It("should extract, parse and return a DONE job", func() {
				body, contentType := buildForm("file", "receipt.jpg", []byte("fake image data"))
				resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				job := decodeJob(resp)
				Expect(job.Status).To(Equal(StatusDone))
				Expect(job.Parsed.Lines).To(HaveLen(1))
			})

			It("should archive the upload", func() {
				body, contentType := buildForm("file", "receipt.jpg", []byte("fake image data"))
				resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(archive.files).To(HaveLen(1))
			})
		})

		When("a text field is supplied instead of a file", func() {
			It("should parse the text directly", func() {
				body, contentType := buildForm("text", "", []byte("Bananas $1.99"))
				resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				job := decodeJob(resp)
				Expect(job.Status).To(Equal(StatusDone))
			})
		})

		When("neither file nor text is supplied", func() {
			It("should return status Bad Request", func() {
				body, contentType := buildForm("", "", nil)
				resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				respBody, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(respBody)).To(ContainSubstring("Either file or text is required"))
			})
		})

		When("the file is not an image or PDF", func() {
			It("should return status Bad Request", func() {
				body, contentType := buildForm("file", "notes.txt", []byte("plain text"))
				resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				respBody, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(respBody)).To(ContainSubstring("Only image and PDF files are supported"))
			})
		})

		When("text extraction fails", func() {
			BeforeEach(func() {
				extractor.extractErr = errors.New("no text found")
			})

			It("should return status Bad Request with the failure", func() {
				body, contentType := buildForm("file", "receipt.jpg", []byte("fake image data"))
				resp, err := http.Post(ghttpServer.URL()+"/api/receipts/parse", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				respBody, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(respBody)).To(ContainSubstring("no text found"))
			})
		})
	})

	Describe("handleGetJob", func() {
		When("the job exists", func() {
			It("should return it unchanged", func() {
				ghttpServer.AppendHandlers(server.ServeHTTP)

				resp := postJSON(`{"text": "Bananas $1.99"}`)
				submitted := decodeJob(resp)

				getResp, err := http.Get(ghttpServer.URL() + "/api/receipts/parse/" + submitted.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(getResp.StatusCode).To(Equal(http.StatusOK))
				got := decodeJob(getResp)
				Expect(got.ID).To(Equal(submitted.ID))
				Expect(got.Status).To(Equal(StatusDone))
			})
		})

		When("the job does not exist", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts/parse/no-such-job")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(ContainSubstring("Parse job not found"))
			})
		})
	})

	Describe("handleListJobs", func() {
		When("jobs exist", func() {
			BeforeEach(func() {
				service.ParseText("Bananas $1.99")
				service.ParseText("Apples $2.49")
			})

			It("should return all jobs", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts/jobs")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				var listed []*Job
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &listed)).NotTo(HaveOccurred())
				Expect(listed).To(HaveLen(2))
			})
		})

		When("no jobs exist", func() {
			It("should return an empty array", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts/jobs")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				var listed []*Job
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(json.Unmarshal(body, &listed)).NotTo(HaveOccurred())
				Expect(listed).To(BeEmpty())
			})
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "admin", Password: "secret"}
			server = NewServerWithMux(service, auth, http.NewServeMux())
			setupServer()
		})

		When("credentials are missing", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/receipts/jobs")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})

		When("credentials are wrong", func() {
			It("should return status Unauthorized", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/receipts/jobs", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("admin", "wrong")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})

		When("credentials are correct", func() {
			It("should return status OK", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/receipts/jobs", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("admin", "secret")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})
	})
})
