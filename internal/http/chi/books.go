package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/google/uuid"
	"github.com/marcelsud/book-catalog/book"
)

/*
* Representa o livro na camada web, por isso ele tem as tags json.
* Um id enviado no corpo é ignorado: o id vem da URL ou é gerado.
 */
type bookRequest struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	PublishedDate book.Date `json:"publishedDate"`
	Rating        int       `json:"rating"`
}

/*
* Representa o livro na camada web
 */
type bookResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	PublishedDate book.Date `json:"publishedDate"`
	Rating        int       `json:"rating"`
}

type reasonResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorsResponse struct {
	Errors []reasonResponse `json:"errors"`
}

func (br bookRequest) toBook() book.Book {
	return book.Book{
		Title:         br.Title,
		Author:        br.Author,
		Genre:         br.Genre,
		PublishedDate: br.PublishedDate,
		Rating:        br.Rating,
	}
}

func toResponse(b book.Book) bookResponse {
	return bookResponse{
		ID:            b.ID.String(),
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedDate: b.PublishedDate,
		Rating:        b.Rating,
	}
}

func getBooks(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := bookService.List(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		result := make([]bookResponse, 0, len(all))
		for _, b := range all {
			result = append(result, toResponse(b))
		}
		writeJSON(w, r, http.StatusOK, result)
	})
}

func getBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookID(w, r)
		if !ok {
			return
		}
		b, err := bookService.Get(r.Context(), id)
		if errors.Is(err, book.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toResponse(b))
	})
}

func postBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		br, ok := decodeBook(w, r)
		if !ok {
			return
		}
		saved, err := bookService.Create(r.Context(), br.toBook())
		if err != nil {
			serviceError(w, r, err)
			return
		}
		w.Header().Set("Location", "/api/books/"+saved.ID.String())
		writeJSON(w, r, http.StatusCreated, toResponse(saved))
	})
}

func putBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookID(w, r)
		if !ok {
			return
		}
		br, ok := decodeBook(w, r)
		if !ok {
			return
		}
		if err := bookService.Update(r.Context(), id, br.toBook()); err != nil {
			serviceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func deleteBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := bookID(w, r)
		if !ok {
			return
		}
		if err := bookService.Delete(r.Context(), id); err != nil {
			internalError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func getStats(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := bookService.Stats(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, stats)
	})
}

func bookID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorsResponse{
			Errors: []reasonResponse{{Field: "id", Message: "The id must be a valid UUID."}},
		})
		return uuid.Nil, false
	}
	return id, true
}

func decodeBook(w http.ResponseWriter, r *http.Request) (bookRequest, bool) {
	var br bookRequest
	if err := json.NewDecoder(r.Body).Decode(&br); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorsResponse{
			Errors: []reasonResponse{{Field: "body", Message: "The request body must be a valid book JSON object."}},
		})
		return bookRequest{}, false
	}
	return br, true
}

// serviceError maps validation failures to 400 and everything else to 500
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *book.ValidationError
	if !errors.As(err, &verr) {
		internalError(w, r, err)
		return
	}
	resp := errorsResponse{Errors: make([]reasonResponse, 0, len(verr.Reasons))}
	for _, reason := range verr.Reasons {
		resp.Errors = append(resp.Errors, reasonResponse{Field: reason.Field, Message: reason.Message})
	}
	writeJSON(w, r, http.StatusBadRequest, resp)
}

// internalError logs the cause and answers with a generic 500
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	oplog := httplog.LogEntry(r.Context())
	oplog.Error().Err(err).Msg("request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		oplog := httplog.LogEntry(r.Context())
		oplog.Error().Err(err).Msg("encoding response")
	}
}
